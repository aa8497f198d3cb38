package service

import (
	"context"
	"strings"

	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/models"

	"github.com/rs/zerolog"
)

// CustomerService manages retail customers (clientes).
type CustomerService struct {
	db     *database.DB
	logger *zerolog.Logger
}

func NewCustomerService(db *database.DB, logger *zerolog.Logger) *CustomerService {
	return &CustomerService{db: db, logger: orNop(logger)}
}

// List filters by a case-insensitive substring of nombre when search is not blank.
func (s *CustomerService) List(ctx context.Context, search string) ([]*models.Customer, error) {
	return s.db.ListCustomers(ctx, strings.TrimSpace(search))
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*models.Customer, error) {
	return s.db.GetCustomer(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	if !in.Nombre.Has() || in.Nombre.Value == "" || !in.Telefono.Has() || in.Telefono.Value == "" {
		return nil, domain.Invalid("nombre", "nombre y telefono son obligatorios")
	}
	c := &models.Customer{
		Nombre:   strings.TrimSpace(in.Nombre.Value),
		Telefono: strings.TrimSpace(in.Telefono.Value),
		Email:    trimmedPtr(in.Email),
		NIT:      trimmedPtr(in.NIT),
	}
	if err := s.db.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update changes only the keys that carry a non-null value.
func (s *CustomerService) Update(ctx context.Context, id int64, in models.CustomerInput) (*models.Customer, error) {
	var updated *models.Customer
	err := s.db.WithTx(ctx, func(q *database.Queries) error {
		c, err := q.GetCustomer(ctx, id)
		if err != nil {
			return err
		}
		if in.Nombre.Has() {
			c.Nombre = strings.TrimSpace(in.Nombre.Value)
		}
		if in.Telefono.Has() {
			c.Telefono = strings.TrimSpace(in.Telefono.Value)
		}
		if in.Email.Has() {
			c.Email = trimmedPtr(in.Email)
		}
		if in.NIT.Has() {
			c.NIT = trimmedPtr(in.NIT)
		}
		if err := q.UpdateCustomer(ctx, c); err != nil {
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

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	return s.db.DeleteCustomer(ctx, id)
}
