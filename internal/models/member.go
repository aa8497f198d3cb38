package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is a gym member with a running account balance. A positive saldo
// means the client owes money.
type Client struct {
	ID       int64           `json:"id"`
	Nombre   string          `json:"nombre"`
	Telefono string          `json:"telefono"`
	Email    *string         `json:"email"`
	Activo   bool            `json:"activo"`
	Saldo    decimal.Decimal `json:"saldo"`
	CreadoEn time.Time       `json:"creado_en"`
}

// HasDebt reports a strictly positive balance.
func (c *Client) HasDebt() bool {
	return c.Saldo.IsPositive()
}

type Coach struct {
	ID       int64     `json:"id"`
	Nombre   string    `json:"nombre"`
	Telefono string    `json:"telefono"`
	Email    *string   `json:"email"`
	Activo   bool      `json:"activo"`
	CreadoEn time.Time `json:"creado_en"`
}

// PersonInput is shared by clients and coaches; saldo is not writable here.
type PersonInput struct {
	Nombre   Field[string] `json:"nombre"`
	Telefono Field[string] `json:"telefono"`
	Email    Field[string] `json:"email"`
	Activo   Field[bool]   `json:"activo"`
}

type Balance struct {
	ClientID int64           `json:"client_id"`
	Saldo    decimal.Decimal `json:"saldo"`
}
