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

const productViewSelect = `
	SELECT p.id, p.vendor_id, u.name, p.name, p.description, p.category,
		p.price_kobo, p.stock_quantity, p.is_active, p.created_at, p.updated_at
	FROM products p
	JOIN users u ON u.id = p.vendor_id`

type ProductReadStore struct {
	db db.DBTX
}

func NewProductReadStore(db db.DBTX) *ProductReadStore {
	return &ProductReadStore{db: db}
}

func (r *ProductReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ProductView, error) {
	v, err := scanProductView(r.db.QueryRow(ctx, productViewSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	return v, nil
}

func (r *ProductReadStore) List(ctx context.Context, filter queries.ProductFilter, keyset queries.Keyset) ([]*queries.ProductView, error) {
	var w where
	if !filter.IncludeInactive {
		w.add("p.is_active")
	}
	if filter.VendorID != nil {
		w.add("p.vendor_id = ?", *filter.VendorID)
	}
	if filter.Category != "" {
		w.add("lower(p.category) = lower(?)", filter.Category)
	}
	if filter.Search != "" {
		w.add("(p.name ILIKE '%' || ? || '%' OR p.description ILIKE '%' || ? || '%')", filter.Search, filter.Search)
	}
	w.keyset("p", keyset)
	sql := productViewSelect + w.String() + w.page("p", keyset)

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list products", err)
	}
	defer rows.Close()

	var views []*queries.ProductView
	for rows.Next() {
		v, err := scanProductView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan product", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate products", err)
	}
	return views, nil
}

func scanProductView(row rowScanner) (*queries.ProductView, error) {
	var (
		v     queries.ProductView
		price int64
	)
	if err := row.Scan(
		&v.ID, &v.VendorID, &v.VendorName, &v.Name, &v.Description, &v.Category,
		&price, &v.StockQuantity, &v.IsActive, &v.CreatedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	v.Price = money.FromKobo(price)
	return &v, nil
}
