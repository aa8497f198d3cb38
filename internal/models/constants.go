package models

// Membership states.
const (
	MembershipActive   = "Activa"
	MembershipInactive = "Inactiva"
)

// Booking states. Only BookingReserved counts toward plan caps and capacity.
const (
	BookingReserved  = "Reservada"
	BookingCancelled = "Cancelada"
)

const SessionScheduled = "Programada"

// Account movement kinds.
const (
	MovementFine       = "fine"
	MovementPayment    = "payment"
	MovementAdjustment = "adjustment"
)

// Payment purposes accepted on payment movements.
const (
	PaymentTypeMembership = "membership"
	PaymentTypeFine       = "multa"
	PaymentTypeOther      = "otro"
)

func ValidPaymentType(t string) bool {
	switch t {
	case PaymentTypeMembership, PaymentTypeFine, PaymentTypeOther:
		return true
	}
	return false
}
