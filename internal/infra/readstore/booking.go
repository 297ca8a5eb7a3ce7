package readstore

import (
	"context"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// The payment reference is the most recent one issued for the booking.
const bookingViewSelect = `
	SELECT b.id, b.listing_id, l.title, l.city, b.vendor_id, b.user_id, u.name,
		b.check_in, b.check_out, b.guests, b.total_price_kobo, b.status, b.escrow_status,
		b.notes, p.reference, b.created_at, b.updated_at
	FROM bookings b
	JOIN listings l ON l.id = b.listing_id
	JOIN users u ON u.id = b.user_id
	LEFT JOIN LATERAL (
		SELECT reference FROM payments
		WHERE subject_type = '` + string(payment.SubjectBooking) + `' AND subject_id = b.id
		ORDER BY created_at DESC
		LIMIT 1
	) p ON true`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	v, err := scanBookingView(r.db.QueryRow(ctx, bookingViewSelect+` WHERE b.id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return v, nil
}

func (r *BookingReadStore) List(ctx context.Context, scope queries.BookingScope, status *booking.Status, keyset queries.Keyset) ([]*queries.BookingView, error) {
	var w where
	if scope.UserID != nil {
		w.add("b.user_id = ?", *scope.UserID)
	}
	if scope.VendorID != nil {
		w.add("b.vendor_id = ?", *scope.VendorID)
	}
	if status != nil {
		w.add("b.status = ?", status.String())
	}
	w.keyset("b", keyset)
	sql := bookingViewSelect + w.String() + w.page("b", keyset)

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var views []*queries.BookingView
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return views, nil
}

func scanBookingView(row rowScanner) (*queries.BookingView, error) {
	var (
		v                 queries.BookingView
		checkIn, checkOut pgtype.Date
		total             int64
		status            string
		reference         pgtype.Text
	)
	if err := row.Scan(
		&v.ID, &v.ListingID, &v.ListingTitle, &v.ListingCity, &v.VendorID, &v.UserID, &v.UserName,
		&checkIn, &checkOut, &v.Guests, &total, &status, &v.EscrowStatus,
		&v.Notes, &reference, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	v.CheckIn = pgconv.DateFromPgtype(checkIn)
	v.CheckOut = pgconv.DateFromPgtype(checkOut)
	v.TotalPrice = money.FromKobo(total)
	v.Status = booking.Status(status)
	v.PaymentReference = pgconv.StringPtrFromPgtype(reference)
	return &v, nil
}
