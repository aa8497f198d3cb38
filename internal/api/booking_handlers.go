package api

import (
	"net/http"

	"marehpilates/internal/models"
)

func (s *HTTPServer) mountBookings(mux *http.ServeMux) {
	bookings := s.svc.Bookings
	ledger := s.svc.Ledger

	mount(s, mux, resource[*models.Booking, models.BookingInput]{
		path:    "/bookings",
		list:    func(r *http.Request) ([]*models.Booking, error) { return bookings.ListBookings(r.Context()) },
		get:     bookings.GetBooking,
		create:  bookings.CreateBooking,
		update:  bookings.UpdateBooking,
		remove:  bookings.DeleteBooking,
		created: func(b *models.Booking) any { return idBody{ID: b.ID} },
		deleted: "Booking eliminado",
	})

	// Movements are append-only.
	mount(s, mux, resource[*models.AccountMovement, models.MovementInput]{
		path:   "/account-movements",
		list:   func(r *http.Request) ([]*models.AccountMovement, error) { return ledger.ListMovements(r.Context()) },
		get:    ledger.GetMovement,
		create: ledger.RecordMovement,
	})
}
