package readstore

import (
	"context"

	"mcdee-marketplace/internal/domain/cart"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

type CartReadStore struct {
	db db.DBTX
}

func NewCartReadStore(db db.DBTX) *CartReadStore {
	return &CartReadStore{db: db}
}

// Lines prices every cart row from the live product row.
func (r *CartReadStore) Lines(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, p.id, p.name, p.vendor_id, u.name, p.price_kobo, ci.quantity, p.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		JOIN users u ON u.id = p.vendor_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at, ci.id`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load cart", err)
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var (
			l     cart.Line
			price int64
		)
		if err := rows.Scan(&l.ItemID, &l.ProductID, &l.ProductName, &l.VendorID, &l.VendorName,
			&price, &l.Quantity, &l.StockQuantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart line", err)
		}
		l.UnitPrice = money.FromKobo(price)
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart", err)
	}
	return lines, nil
}
