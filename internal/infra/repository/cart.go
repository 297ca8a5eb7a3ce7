package repository

import (
	"context"

	"mcdee-marketplace/internal/domain/cart"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const cartLineSelect = `
	SELECT ci.id, p.id, p.name, p.vendor_id, u.name, p.price_kobo, ci.quantity, p.stock_quantity
	FROM cart_items ci
	JOIN products p ON p.id = ci.product_id
	JOIN users u ON u.id = p.vendor_id`

type CartRepository struct {
	db db.DBTX
}

func NewCartRepository(db db.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

// Lines keeps insertion order so vendor groups come out in first-added order.
func (r *CartRepository) Lines(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	rows, err := r.db.Query(ctx, cartLineSelect+` WHERE ci.user_id = $1 ORDER BY ci.created_at, ci.id`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cart", err)
	}
	defer rows.Close()

	lines := make([]cart.Line, 0)
	for rows.Next() {
		l, err := scanCartLine(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate cart", err)
	}
	return lines, nil
}

func (r *CartRepository) FindLine(ctx context.Context, userID, itemID uuid.UUID) (*cart.Line, error) {
	return r.findOne(ctx, cartLineSelect+` WHERE ci.user_id = $1 AND ci.id = $2`, userID, itemID)
}

func (r *CartRepository) FindLineByProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Line, error) {
	return r.findOne(ctx, cartLineSelect+` WHERE ci.user_id = $1 AND ci.product_id = $2`, userID, productID)
}

func (r *CartRepository) findOne(ctx context.Context, query string, args ...any) (*cart.Line, error) {
	l, err := scanCartLine(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cart item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cart item", err)
	}
	return &l, nil
}

func (r *CartRepository) Insert(ctx context.Context, userID, productID uuid.UUID, quantity int) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id`, userID, productID, quantity).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to add cart item", err)
	}
	return id, nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2`, userID, itemID, quantity)
	if err != nil {
		return infra.WrapRepoErr("failed to update cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND id = $2`, userID, itemID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("cart item not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return infra.WrapRepoErr("failed to clear cart", err)
	}
	return nil
}

func scanCartLine(row rowScanner) (cart.Line, error) {
	var (
		l         cart.Line
		priceKobo int64
	)
	err := row.Scan(&l.ItemID, &l.ProductID, &l.ProductName, &l.VendorID, &l.VendorName,
		&priceKobo, &l.Quantity, &l.StockQuantity)
	l.UnitPrice = money.FromKobo(priceKobo)
	return l, err
}
