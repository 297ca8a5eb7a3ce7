package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/listing"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const listingColumns = `id, vendor_id, title, description, city, address,
	price_per_night_kobo, max_guests, bedrooms, is_active, created_at, updated_at`

type ListingRepository struct {
	db db.DBTX
}

func NewListingRepository(db db.DBTX) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	d := l.Details()
	_, err := r.db.Exec(ctx, `
		INSERT INTO listings (id, vendor_id, title, description, city, address,
			price_per_night_kobo, max_guests, bedrooms, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		l.ID(), l.VendorID(), d.Title, d.Description, d.City, d.Address,
		d.PricePerNight.Kobo(), d.MaxGuests, d.Bedrooms, l.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create listing", err)
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return r.find(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
}

func (r *ListingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	return r.find(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1 FOR UPDATE`, id)
}

func (r *ListingRepository) find(ctx context.Context, query string, id uuid.UUID) (*listing.Listing, error) {
	var (
		lid, vendorID                     uuid.UUID
		title, description, city, address string
		priceKobo                         int64
		maxGuests, bedrooms               int
		isActive                          bool
		createdAt, updatedAt              time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&lid, &vendorID, &title, &description, &city, &address,
		&priceKobo, &maxGuests, &bedrooms, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("listing not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find listing", err)
	}

	details := listing.Details{
		Title:         title,
		Description:   description,
		City:          city,
		Address:       address,
		PricePerNight: money.FromKobo(priceKobo),
		MaxGuests:     maxGuests,
		Bedrooms:      bedrooms,
	}
	return listing.ReconstructListing(lid, vendorID, details, isActive, createdAt, updatedAt), nil
}

func (r *ListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	d := l.Details()
	tag, err := r.db.Exec(ctx, `
		UPDATE listings
		SET title = $2, description = $3, city = $4, address = $5, price_per_night_kobo = $6,
			max_guests = $7, bedrooms = $8, is_active = $9, updated_at = now()
		WHERE id = $1`,
		l.ID(), d.Title, d.Description, d.City, d.Address, d.PricePerNight.Kobo(),
		d.MaxGuests, d.Bedrooms, l.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update listing", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("listing not found", nil, infra.KindNotFound)
	}
	return nil
}
