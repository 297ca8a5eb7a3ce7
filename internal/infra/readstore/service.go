package readstore

import (
	"context"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ServiceReadStore struct {
	db db.DBTX
}

func NewServiceReadStore(db db.DBTX) *ServiceReadStore {
	return &ServiceReadStore{db: db}
}

func (r *ServiceReadStore) ListVendors(ctx context.Context) ([]*queries.ServiceVendorView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT sv.id, sv.user_id, sv.business_name, sv.category, sv.city, sv.description, u.kyc_verified,
			sp.id, sp.title, sp.description, sp.price_kobo, sp.is_active
		FROM service_vendors sv
		JOIN users u ON u.id = sv.user_id
		LEFT JOIN service_pricings sp ON sp.service_vendor_id = sv.id AND sp.is_active
		WHERE u.is_active
		ORDER BY sv.business_name, sv.id, sp.created_at`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list service vendors", err)
	}
	defer rows.Close()

	var (
		views []*queries.ServiceVendorView
		last  *queries.ServiceVendorView
	)
	for rows.Next() {
		var (
			v         queries.ServiceVendorView
			pricingID pgtype.UUID
			title     pgtype.Text
			desc      pgtype.Text
			priceKobo pgtype.Int8
			isActive  pgtype.Bool
		)
		if err := rows.Scan(&v.ID, &v.UserID, &v.BusinessName, &v.Category, &v.City, &v.Description, &v.KYCVerified,
			&pricingID, &title, &desc, &priceKobo, &isActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan service vendor", err)
		}
		if last == nil || last.ID != v.ID {
			v.Pricing = []queries.ServicePricingView{}
			last = &v
			views = append(views, last)
		}
		if pricingID.Valid {
			last.Pricing = append(last.Pricing, queries.ServicePricingView{
				ID:          uuid.UUID(pricingID.Bytes),
				Title:       pgconv.StringFromPgtype(title),
				Description: pgconv.StringFromPgtype(desc),
				Price:       money.FromKobo(priceKobo.Int64),
				IsActive:    isActive.Bool,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate service vendors", err)
	}
	return views, nil
}

func (r *ServiceReadStore) ListOrders(ctx context.Context, scope queries.ServiceOrderScope, status *string, keyset queries.Keyset) ([]*queries.ServiceOrderView, error) {
	var w where
	if scope.UserID != nil {
		w.add("so.user_id = ?", *scope.UserID)
	}
	if scope.VendorUserID != nil {
		w.add("so.vendor_user_id = ?", *scope.VendorUserID)
	}
	if status != nil {
		w.add("so.status = ?", *status)
	}
	w.keyset("so", keyset)
	sql := `
		SELECT so.id, so.service_vendor_id, sv.business_name, so.vendor_user_id, so.service_pricing_id, sp.title,
			so.user_id, so.deadline, so.requirements, so.amount_kobo, so.status, so.escrow_status,
			so.vendor_note, so.created_at, so.updated_at
		FROM service_orders so
		JOIN service_vendors sv ON sv.id = so.service_vendor_id
		JOIN service_pricings sp ON sp.id = so.service_pricing_id` + w.String() + w.page("so", keyset)

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list service orders", err)
	}
	defer rows.Close()

	var views []*queries.ServiceOrderView
	for rows.Next() {
		var (
			v        queries.ServiceOrderView
			deadline pgtype.Date
			amount   int64
		)
		if err := rows.Scan(&v.ID, &v.ServiceVendorID, &v.BusinessName, &v.VendorUserID, &v.PricingID, &v.PricingTitle,
			&v.UserID, &deadline, &v.Requirements, &amount, &v.Status, &v.EscrowStatus,
			&v.VendorNote, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan service order", err)
		}
		v.Deadline = pgconv.DateFromPgtype(deadline)
		v.Amount = money.FromKobo(amount)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate service orders", err)
	}
	return views, nil
}
