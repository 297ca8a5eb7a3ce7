package readstore

import (
	"context"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

const listingViewSelect = `
	SELECT l.id, l.vendor_id, u.name, l.title, l.description, l.city, l.address,
		l.price_per_night_kobo, l.max_guests, l.bedrooms, l.is_active, l.created_at, l.updated_at
	FROM listings l
	JOIN users u ON u.id = l.vendor_id`

type ListingReadStore struct {
	db db.DBTX
}

func NewListingReadStore(db db.DBTX) *ListingReadStore {
	return &ListingReadStore{db: db}
}

func (r *ListingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ListingView, error) {
	v, err := scanListingView(r.db.QueryRow(ctx, listingViewSelect+` WHERE l.id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing", err)
	}
	return v, nil
}

func (r *ListingReadStore) List(ctx context.Context, filter queries.ListingFilter, keyset queries.Keyset) ([]*queries.ListingView, error) {
	var w where
	if filter.VendorID != nil {
		w.add("l.vendor_id = ?", *filter.VendorID)
	} else {
		w.add("l.is_active")
	}
	if filter.City != "" {
		w.add("lower(l.city) = lower(?)", filter.City)
	}
	w.keyset("l", keyset)
	sql := listingViewSelect + w.String() + w.page("l", keyset)

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list listings", err)
	}
	defer rows.Close()

	var views []*queries.ListingView
	for rows.Next() {
		v, err := scanListingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan listing", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate listings", err)
	}
	return views, nil
}

func scanListingView(row rowScanner) (*queries.ListingView, error) {
	var (
		v     queries.ListingView
		price int64
	)
	if err := row.Scan(
		&v.ID, &v.VendorID, &v.VendorName, &v.Title, &v.Description, &v.City, &v.Address,
		&price, &v.MaxGuests, &v.Bedrooms, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	v.PricePerNight = money.FromKobo(price)
	return &v, nil
}
