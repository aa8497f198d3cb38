package service

import (
	"context"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
)

// MemberService manages gym clients and coaches. A client's saldo is never
// written here; only the ledger moves it.
type MemberService struct {
	db     *database.DB
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewMemberService(db *database.DB, clock domain.Clock, logger *zerolog.Logger) *MemberService {
	if clock == nil {
		clock = systemClock
	}
	return &MemberService{db: db, clock: clock, logger: orNop(logger)}
}

func (s *MemberService) ListClients(ctx context.Context) ([]*models.Client, error) {
	return s.db.ListClients(ctx)
}

func (s *MemberService) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	return s.db.GetClient(ctx, id)
}

func (s *MemberService) CreateClient(ctx context.Context, in models.PersonInput) (*models.Client, error) {
	nombre, telefono, err := personNames(in)
	if err != nil {
		return nil, err
	}
	c := &models.Client{
		Nombre:   nombre,
		Telefono: telefono,
		Email:    in.Email.Ptr(),
		Activo:   !in.Activo.Set || (in.Activo.Has() && in.Activo.Value),
		CreadoEn: s.clock().UTC(),
	}
	if err := s.db.CreateClient(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *MemberService) UpdateClient(ctx context.Context, id int64, in models.PersonInput) (*models.Client, error) {
	var updated *models.Client
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		c, err := q.GetClient(ctx, id)
		if err != nil {
			return err
		}
		if err := applyPerson(in, &c.Nombre, &c.Telefono, &c.Email, &c.Activo); err != nil {
			return err
		}
		if err := q.UpdateClient(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemberService) DeleteClient(ctx context.Context, id int64) error {
	return s.db.DeleteClient(ctx, id)
}

func (s *MemberService) ListCoaches(ctx context.Context) ([]*models.Coach, error) {
	return s.db.ListCoaches(ctx)
}

func (s *MemberService) GetCoach(ctx context.Context, id int64) (*models.Coach, error) {
	return s.db.GetCoach(ctx, id)
}

func (s *MemberService) CreateCoach(ctx context.Context, in models.PersonInput) (*models.Coach, error) {
	nombre, telefono, err := personNames(in)
	if err != nil {
		return nil, err
	}
	c := &models.Coach{
		Nombre:   nombre,
		Telefono: telefono,
		Email:    in.Email.Ptr(),
		Activo:   !in.Activo.Set || (in.Activo.Has() && in.Activo.Value),
		CreadoEn: s.clock().UTC(),
	}
	if err := s.db.CreateCoach(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *MemberService) UpdateCoach(ctx context.Context, id int64, in models.PersonInput) (*models.Coach, error) {
	var updated *models.Coach
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		c, err := q.GetCoach(ctx, id)
		if err != nil {
			return err
		}
		if err := applyPerson(in, &c.Nombre, &c.Telefono, &c.Email, &c.Activo); err != nil {
			return err
		}
		if err := q.UpdateCoach(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemberService) DeleteCoach(ctx context.Context, id int64) error {
	return s.db.DeleteCoach(ctx, id)
}

func personNames(in models.PersonInput) (string, string, error) {
	nombre, errNombre := requiredString(in.Nombre, "nombre")
	telefono, errTelefono := requiredString(in.Telefono, "telefono")
	if errNombre != nil || errTelefono != nil {
		return "", "", domain.Invalid("nombre", "nombre y telefono son requeridos")
	}
	return nombre, telefono, nil
}

func applyPerson(in models.PersonInput, nombre, telefono *string, email **string, activo *bool) error {
	if in.Nombre.Set {
		v, err := requiredString(in.Nombre, "nombre")
		if err != nil {
			return err
		}
		*nombre = v
	}
	if in.Telefono.Set {
		v, err := requiredString(in.Telefono, "telefono")
		if err != nil {
			return err
		}
		*telefono = v
	}
	if in.Email.Set {
		*email = in.Email.Ptr()
	}
	if in.Activo.Set {
		*activo = in.Activo.Has() && in.Activo.Value
	}
	return nil
}
