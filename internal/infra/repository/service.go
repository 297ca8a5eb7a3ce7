package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/domain/serviceorder"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ServiceVendorRepository struct {
	db db.DBTX
}

func NewServiceVendorRepository(db db.DBTX) *ServiceVendorRepository {
	return &ServiceVendorRepository{db: db}
}

func (r *ServiceVendorRepository) UpsertProfile(ctx context.Context, p serviceorder.Profile) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO service_vendors (user_id, business_name, category, city, description)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET business_name = EXCLUDED.business_name,
			category = EXCLUDED.category,
			city = EXCLUDED.city,
			description = EXCLUDED.description,
			updated_at = now()
		RETURNING id`,
		p.UserID, p.BusinessName, p.Category, p.City, p.Description,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to save service profile", err)
	}
	return id, nil
}

func (r *ServiceVendorRepository) FindIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id FROM service_vendors WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return uuid.Nil, infra.WrapRepoErr("service profile not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to find service profile", err)
	}
	return id, nil
}

func (r *ServiceVendorRepository) CreatePricing(ctx context.Context, serviceVendorID uuid.UUID, p serviceorder.Pricing) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO service_pricings (service_vendor_id, title, description, price_kobo)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		serviceVendorID, p.Title, p.Description, p.Price.Kobo(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create service pricing", err)
	}
	return id, nil
}

func (r *ServiceVendorRepository) FindPricing(ctx context.Context, pricingID uuid.UUID) (serviceorder.PricingSpec, error) {
	var (
		spec      serviceorder.PricingSpec
		priceKobo int64
	)
	err := r.db.QueryRow(ctx, `
		SELECT sp.id, sp.service_vendor_id, sv.user_id, sp.price_kobo, sp.is_active
		FROM service_pricings sp
		JOIN service_vendors sv ON sv.id = sp.service_vendor_id
		WHERE sp.id = $1`, pricingID,
	).Scan(&spec.ID, &spec.ServiceVendorID, &spec.VendorUserID, &priceKobo, &spec.IsActive)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return spec, infra.WrapRepoErr("service pricing not found", err, infra.KindNotFound)
		}
		return spec, infra.WrapRepoErr("failed to find service pricing", err)
	}
	spec.Price = money.FromKobo(priceKobo)
	return spec, nil
}

type ServiceOrderRepository struct {
	db db.DBTX
}

func NewServiceOrderRepository(db db.DBTX) *ServiceOrderRepository {
	return &ServiceOrderRepository{db: db}
}

func (r *ServiceOrderRepository) Create(ctx context.Context, o *serviceorder.ServiceOrder) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO service_orders (id, service_vendor_id, vendor_user_id, service_pricing_id, user_id,
			deadline, requirements, amount_kobo, status, escrow_status, vendor_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		o.ID(), o.ServiceVendorID(), o.VendorUserID(), o.PricingID(), o.UserID(),
		pgconv.DateToPgtype(o.Deadline()), o.Requirements(), o.Amount().Kobo(),
		o.Status().String(), o.EscrowStatus().String(), o.VendorNote(), o.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create service order", err)
	}
	return nil
}

func (r *ServiceOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*serviceorder.ServiceOrder, error) {
	var (
		oid, serviceVendorID, vendorUserID, pricingID, userID uuid.UUID
		deadline                                              pgtype.Date
		requirements, status, escrowStatus, note              string
		amountKobo                                            int64
		createdAt, updatedAt                                  time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, service_vendor_id, vendor_user_id, service_pricing_id, user_id, deadline,
			requirements, amount_kobo, status, escrow_status, vendor_note, created_at, updated_at
		FROM service_orders WHERE id = $1 FOR UPDATE`, id,
	).Scan(&oid, &serviceVendorID, &vendorUserID, &pricingID, &userID, &deadline,
		&requirements, &amountKobo, &status, &escrowStatus, &note, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find service order", err)
	}

	return serviceorder.ReconstructServiceOrder(oid, serviceVendorID, vendorUserID, pricingID, userID,
		pgconv.DateFromPgtype(deadline), requirements, money.FromKobo(amountKobo),
		serviceorder.Status(status), escrow.Status(escrowStatus), note, createdAt, updatedAt), nil
}

func (r *ServiceOrderRepository) Update(ctx context.Context, o *serviceorder.ServiceOrder) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE service_orders
		SET status = $2, escrow_status = $3, vendor_note = $4, updated_at = $5
		WHERE id = $1`,
		o.ID(), o.Status().String(), o.EscrowStatus().String(), o.VendorNote(), o.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update service order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("service order not found", nil, infra.KindNotFound)
	}
	return nil
}
