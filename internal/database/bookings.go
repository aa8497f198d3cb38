package database

import (
	"context"
	"fmt"
	"time"

	"marehpilates/internal/domain"
	"marehpilates/internal/models"
)

const bookingColumns = `id, session_id, client_id, membership_id, estado, asistio, check_in_at, creado_en`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(&b.ID, &b.SessionID, &b.ClientID, &b.MembershipID, &b.Estado, &b.Asistio, &b.CheckInAt, &b.CreadoEn)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (q *Queries) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (q *Queries) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	b, err := scanBooking(q.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "booking")
	}
	return b, nil
}

// CreateBooking inserts b. A second booking for the same session and client
// yields domain.ErrDuplicateBooking.
func (q *Queries) CreateBooking(ctx context.Context, b *models.Booking) error {
	if b.CreadoEn.IsZero() {
		b.CreadoEn = time.Now().UTC()
	}
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO bookings (session_id, client_id, membership_id, estado, asistio, check_in_at, creado_en)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.SessionID, b.ClientID, b.MembershipID, b.Estado, b.Asistio, utcPtr(b.CheckInAt), b.CreadoEn)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBooking
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	return nil
}

func (q *Queries) UpdateBooking(ctx context.Context, b *models.Booking) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE bookings SET session_id = ?, client_id = ?, membership_id = ?, estado = ?, asistio = ?, check_in_at = ?
		WHERE id = ?`,
		b.SessionID, b.ClientID, b.MembershipID, b.Estado, b.Asistio, utcPtr(b.CheckInAt), b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBooking
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}
	return expectOneRow(res)
}

func (q *Queries) DeleteBooking(ctx context.Context, id int64) error {
	return q.deleteByID(ctx, "bookings", id)
}

func (q *Queries) BookingExists(ctx context.Context, id int64) (bool, error) {
	return q.exists(ctx, "bookings", id)
}

// CountReservedForMembership counts every reserved booking charged to the membership.
func (q *Queries) CountReservedForMembership(ctx context.Context, membershipID int64) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE membership_id = ? AND estado = ?`,
		membershipID, models.BookingReserved).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count membership bookings: %w", err)
	}
	return n, nil
}

// CountReservedForMembershipBetween counts reserved bookings of the membership
// whose session falls on a date in [start, end].
func (q *Queries) CountReservedForMembershipBetween(ctx context.Context, membershipID int64, start, end models.Date) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM bookings b
		JOIN class_sessions s ON s.id = b.session_id
		WHERE b.membership_id = ? AND b.estado = ? AND s.fecha >= ? AND s.fecha <= ?`,
		membershipID, models.BookingReserved, start, end).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count weekly bookings: %w", err)
	}
	return n, nil
}

func (q *Queries) CountReservedForSession(ctx context.Context, sessionID int64) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE session_id = ? AND estado = ?`,
		sessionID, models.BookingReserved).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count session bookings: %w", err)
	}
	return n, nil
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
