package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/catalog"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const productColumns = `id, vendor_id, name, description, category, price_kobo,
	stock_quantity, is_active, created_at, updated_at`

type ProductRepository struct {
	db db.DBTX
}

func NewProductRepository(db db.DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	d := p.Details()
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, vendor_id, name, description, category, price_kobo, stock_quantity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID(), p.VendorID(), d.Name, d.Description, d.Category, d.Price.Kobo(), d.StockQuantity, p.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create product", err)
	}
	return nil
}

func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	p, err := scanProduct(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("product not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find product", err)
	}
	return p, nil
}

func (r *ProductRepository) FindManyForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock products", err)
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*catalog.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan product", err)
		}
		products[p.ID()] = p
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate products", err)
	}
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	d := p.Details()
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, category = $4, price_kobo = $5, stock_quantity = $6,
			is_active = $7, updated_at = now()
		WHERE id = $1`,
		p.ID(), d.Name, d.Description, d.Category, d.Price.Kobo(), d.StockQuantity, p.IsActive(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update product", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("product not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanProduct(row rowScanner) (*catalog.Product, error) {
	var (
		id, vendorID                uuid.UUID
		name, description, category string
		priceKobo                   int64
		stock                       int
		isActive                    bool
		createdAt, updatedAt        time.Time
	)
	if err := row.Scan(&id, &vendorID, &name, &description, &category, &priceKobo,
		&stock, &isActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	details := catalog.Details{
		Name:          name,
		Description:   description,
		Category:      category,
		Price:         money.FromKobo(priceKobo),
		StockQuantity: stock,
	}
	return catalog.ReconstructProduct(id, vendorID, details, isActive, createdAt, updatedAt), nil
}
