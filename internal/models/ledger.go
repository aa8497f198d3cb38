package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountMovement is one signed entry in a client's ledger. Fines are stored
// positive, payments negative, adjustments as given.
type AccountMovement struct {
	ID        int64           `json:"id"`
	ClientID  int64           `json:"client_id"`
	Amount    decimal.Decimal `json:"amount"`
	Tipo      string          `json:"tipo"`
	BookingID *int64          `json:"booking_id"`
	Nota      *string         `json:"nota"`
	CreadoEn  time.Time       `json:"creado_en"`
	Payment   *Payment        `json:"payment"`
}

type Payment struct {
	ID               int64     `json:"id"`
	MovementID       int64     `json:"movement_id"`
	MembershipID     *int64    `json:"membership_id"`
	PaymentType      *string   `json:"payment_type"`
	PaymentMethod    *string   `json:"payment_method"`
	PaymentReference *string   `json:"payment_reference"`
	FechaPago        time.Time `json:"fecha_pago"`
}

// MovementInput accepts payment_date and fecha_pago as synonyms.
type MovementInput struct {
	ClientID         Field[int64]           `json:"client_id"`
	Amount           Field[decimal.Decimal] `json:"amount"`
	Tipo             Field[string]          `json:"tipo"`
	BookingID        Field[int64]           `json:"booking_id"`
	Nota             Field[string]          `json:"nota"`
	PaymentType      Field[string]          `json:"payment_type"`
	PaymentMethod    Field[string]          `json:"payment_method"`
	PaymentReference Field[string]          `json:"payment_reference"`
	PaymentDate      Field[Timestamp]       `json:"payment_date"`
	FechaPago        Field[Timestamp]       `json:"fecha_pago"`
	MembershipID     Field[int64]           `json:"membership_id"`
}

// SignedAmount applies the sign convention for tipo. ok is false for an unknown tipo.
func SignedAmount(tipo string, amount decimal.Decimal) (decimal.Decimal, bool) {
	switch tipo {
	case MovementFine:
		return amount.Abs(), true
	case MovementPayment:
		return amount.Abs().Neg(), true
	case MovementAdjustment:
		return amount, true
	}
	return decimal.Zero, false
}
