package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, listing_id, vendor_id, user_id, check_in, check_out, guests,
	total_price_kobo, status, escrow_status, notes, created_at, updated_at`

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bookings (id, listing_id, vendor_id, user_id, check_in, check_out, nights, guests,
			total_price_kobo, status, escrow_status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		b.ID(), b.ListingID(), b.VendorID(), b.UserID(),
		pgconv.DateToPgtype(b.Stay().CheckIn()), pgconv.DateToPgtype(b.Stay().CheckOut()),
		b.Stay().Nights(), b.Guests().Value(), b.TotalPrice().Kobo(),
		b.Status().String(), b.EscrowStatus().String(), b.Notes(), b.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return b, nil
}

// HasOverlap treats [check_in, check_out) as half-open, so a stay may start on
// another stay's check-out day.
func (r *BookingRepository) HasOverlap(ctx context.Context, listingID uuid.UUID, stay booking.Stay) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE listing_id = $1
			  AND status NOT IN ('completed', 'cancelled', 'refunded')
			  AND check_in < $3
			  AND check_out > $2
		)`,
		listingID, pgconv.DateToPgtype(stay.CheckIn()), pgconv.DateToPgtype(stay.CheckOut()),
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE bookings SET status = $2, escrow_status = $3, updated_at = $4
		WHERE id = $1`,
		b.ID(), b.Status().String(), b.EscrowStatus().String(), b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanBooking(row rowScanner) (*booking.Booking, error) {
	var (
		id, listingID, vendorID, userID uuid.UUID
		checkIn, checkOut               pgtype.Date
		guests                          int
		totalKobo                       int64
		status, escrowStatus, notes     string
		createdAt, updatedAt            time.Time
	)
	if err := row.Scan(&id, &listingID, &vendorID, &userID, &checkIn, &checkOut, &guests,
		&totalKobo, &status, &escrowStatus, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	stay, err := booking.NewStay(pgconv.DateFromPgtype(checkIn), pgconv.DateFromPgtype(checkOut))
	if err != nil {
		return nil, err
	}
	g, err := booking.NewGuests(guests)
	if err != nil {
		return nil, err
	}

	return booking.ReconstructBooking(id, listingID, vendorID, userID, stay, g,
		money.FromKobo(totalKobo), booking.Status(status), escrow.Status(escrowStatus),
		notes, createdAt, updatedAt), nil
}
