package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Lookup fetches booking details by id.
type Lookup interface {
	GetBookingDetails(ctx context.Context, bookingID string) (*BookingDetails, error)
}

const bookingDetailsQuery = `SELECT b.id, p.full_name, p.email, a.title, COALESCE(g.name, ''), b.activity_date, b.participants, b.total_price, COALESCE(b.currency, 'ARS'), COALESCE(a.meeting_point, ''), COALESCE(p.preferred_language, '')
FROM bookings b
JOIN activities a ON a.id = b.activity_id
LEFT JOIN guides g ON g.id = a.guide_id
JOIN user_profiles p ON p.id = b.user_id
WHERE b.id = $1`

// Repository reads bookings from the hosted Postgres database.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetBookingDetails(ctx context.Context, bookingID string) (*BookingDetails, error) {
	var d BookingDetails
	err := r.db.QueryRowContext(ctx, bookingDetailsQuery, bookingID).Scan(
		&d.BookingID,
		&d.CustomerName,
		&d.CustomerEmail,
		&d.ActivityTitle,
		&d.GuideName,
		&d.ActivityDate,
		&d.Participants,
		&d.TotalPrice,
		&d.Currency,
		&d.MeetingPoint,
		&d.Language,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("query booking %s: %w", bookingID, err)
	}
	return &d, nil
}
