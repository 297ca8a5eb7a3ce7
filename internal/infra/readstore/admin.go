package readstore

import (
	"context"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/pgconv"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgtype"
)

type AdminReadStore struct {
	db db.DBTX
}

func NewAdminReadStore(db db.DBTX) *AdminReadStore {
	return &AdminReadStore{db: db}
}

func (r *AdminReadStore) ListVendors(ctx context.Context) ([]*queries.VendorView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, phone, coalesce(vendor_category, ''), kyc_verified, is_active, created_at
		FROM users
		WHERE role = 'vendor'
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list vendors", err)
	}
	defer rows.Close()

	var views []*queries.VendorView
	for rows.Next() {
		var (
			v     queries.VendorView
			phone pgtype.Text
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &phone, &v.VendorCategory,
			&v.KYCVerified, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan vendor", err)
		}
		v.Phone = pgconv.StringFromPgtype(phone)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate vendors", err)
	}
	return views, nil
}

// Counts aggregates the dashboard figures. Escrow totals span bookings,
// orders and service orders.
func (r *AdminReadStore) Counts(ctx context.Context) (*queries.DashboardCounts, error) {
	c := &queries.DashboardCounts{}
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM users WHERE role = 'vendor'),
			(SELECT count(*) FROM users WHERE role = 'vendor' AND kyc_verified),
			(SELECT count(*) FROM kyc_submissions WHERE status = 'pending')`,
	).Scan(&c.TotalUsers, &c.TotalVendors, &c.VerifiedVendors, &c.PendingKYC)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count users", err)
	}

	if c.BookingsByStatus, err = r.countByStatus(ctx, "bookings"); err != nil {
		return nil, err
	}
	if c.OrdersByStatus, err = r.countByStatus(ctx, "orders"); err != nil {
		return nil, err
	}

	err = r.db.QueryRow(ctx, `
		WITH escrow AS (
			SELECT escrow_status, total_price_kobo AS amount FROM bookings
			UNION ALL
			SELECT escrow_status, total_amount_kobo FROM orders
			UNION ALL
			SELECT escrow_status, amount_kobo FROM service_orders
		)
		SELECT
			coalesce(sum(amount) FILTER (WHERE escrow_status = 'held'), 0),
			coalesce(sum(amount) FILTER (WHERE escrow_status = 'released'), 0)
		FROM escrow`,
	).Scan(&c.EscrowHeldKobo, &c.EscrowReleasedKobo)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to sum escrow", err)
	}
	return c, nil
}

// countByStatus only accepts the fixed table names above.
func (r *AdminReadStore) countByStatus(ctx context.Context, table string) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, count(*) FROM `+table+` GROUP BY status`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to count "+table, err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, infra.WrapRepoErr("failed to scan "+table+" count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate "+table+" counts", err)
	}
	return counts, nil
}
