package models

import "time"

// Booking reserves a client's seat in a class session. At most one booking
// exists per (session, client) pair.
type Booking struct {
	ID           int64      `json:"id"`
	SessionID    int64      `json:"session_id"`
	ClientID     int64      `json:"client_id"`
	MembershipID *int64     `json:"membership_id"`
	Estado       string     `json:"estado"`
	Asistio      bool       `json:"asistio"`
	CheckInAt    *time.Time `json:"check_in_at"`
	CreadoEn     time.Time  `json:"creado_en"`
}

type BookingInput struct {
	SessionID    Field[int64]     `json:"session_id"`
	ClientID     Field[int64]     `json:"client_id"`
	MembershipID Field[int64]     `json:"membership_id"`
	Estado       Field[string]    `json:"estado"`
	Asistio      Field[bool]      `json:"asistio"`
	CheckInAt    Field[Timestamp] `json:"check_in_at"`
}
