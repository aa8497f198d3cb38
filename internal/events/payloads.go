package events

import "github.com/shopspring/decimal"

const (
	EventBookingCreated     = "booking_created"
	EventMovementRecorded   = "account_movement_recorded"
	EventOrderCreated       = "order_created"
	EventOrderUpdated       = "order_updated"
	EventOrderDeleted       = "order_deleted"
	EventMembershipsExpired = "memberships_expired"
)

type BookingEventPayload struct {
	BookingID    int64  `json:"booking_id"`
	SessionID    int64  `json:"session_id"`
	ClientID     int64  `json:"client_id"`
	MembershipID *int64 `json:"membership_id,omitempty"`
	Estado       string `json:"estado"`
}

// MovementEventPayload carries the signed amount and the client's saldo after it.
type MovementEventPayload struct {
	MovementID int64           `json:"movement_id"`
	ClientID   int64           `json:"client_id"`
	Tipo       string          `json:"tipo"`
	Amount     decimal.Decimal `json:"amount"`
	Saldo      decimal.Decimal `json:"saldo"`
}

type OrderEventPayload struct {
	OrderID int64           `json:"order_id"`
	Codigo  string          `json:"codigo,omitempty"`
	Total   decimal.Decimal `json:"total"`
	Items   int             `json:"items"`
}

type ExpiryEventPayload struct {
	Today   string `json:"today"`
	Expired int64  `json:"expired"`
}
