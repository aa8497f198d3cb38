package service

import (
	"context"
	"errors"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages back-office operators and checks their credentials.
type UserService struct {
	db         *database.DB
	logger     *zerolog.Logger
	bcryptCost int
}

func NewUserService(db *database.DB, logger *zerolog.Logger) *UserService {
	return &UserService{db: db, logger: orNop(logger), bcryptCost: bcrypt.DefaultCost}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.db.ListUsers(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.db.GetUser(ctx, id)
}

func (s *UserService) CreateUser(ctx context.Context, in models.UserInput) (*models.User, error) {
	if !in.Username.Has() || in.Username.Value == "" || !in.Password.Has() || in.Password.Value == "" {
		return nil, domain.Invalid("username", "username y password son requeridos")
	}
	hash, err := s.hash(in.Password.Value)
	if err != nil {
		return nil, err
	}
	u := &models.User{Username: in.Username.Value, PasswordHash: hash}
	if in.IsAdmin.Has() {
		u.IsAdmin = in.IsAdmin.Value
	}
	if err := s.db.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", u.ID).Str("username", u.Username).Bool("is_admin", u.IsAdmin).Msg("user created")
	return u, nil
}

// UpdateUser renames, re-hashes a non-empty password and toggles is_admin.
func (s *UserService) UpdateUser(ctx context.Context, id int64, in models.UserInput) (*models.User, error) {
	var hash string
	if in.Password.Has() && in.Password.Value != "" {
		var err error
		if hash, err = s.hash(in.Password.Value); err != nil {
			return nil, err
		}
	}

	var updated *models.User
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		u, err := q.GetUser(ctx, id)
		if err != nil {
			return err
		}
		if in.Username.Has() && in.Username.Value != "" {
			u.Username = in.Username.Value
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if in.IsAdmin.Set {
			u.IsAdmin = in.IsAdmin.Has() && in.IsAdmin.Value
		}
		if err := q.UpdateUser(ctx, u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.db.DeleteUser(ctx, id)
}

// Login verifies the password. Unknown users and wrong passwords both yield
// domain.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, domain.Invalid("username", "username y password son requeridos")
	}
	u, err := s.db.GetUserByUsername(ctx, creds.Username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(creds.Password)); err != nil {
		s.logger.Warn().Str("username", creds.Username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}
	return &models.LoginResult{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}, nil
}

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
