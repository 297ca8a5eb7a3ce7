package readstore

import (
	"context"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(db db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: db}
}

// List loads one page of orders, then their items in a single follow-up query.
func (r *OrderReadStore) List(ctx context.Context, scope queries.OrderScope, status *string, keyset queries.Keyset) ([]*queries.OrderView, error) {
	var w where
	if scope.UserID != nil {
		w.add("o.user_id = ?", *scope.UserID)
	}
	if scope.VendorID != nil {
		w.add("o.vendor_id = ?", *scope.VendorID)
	}
	if scope.CheckoutID != nil {
		w.add("o.checkout_id = ?", *scope.CheckoutID)
	}
	if status != nil {
		w.add("o.status = ?", *status)
	}
	w.keyset("o", keyset)
	sql := `
		SELECT o.id, o.checkout_id, o.user_id, o.vendor_id, u.name, o.total_amount_kobo,
			o.status, o.escrow_status, o.delivery_address, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.vendor_id` + w.String() + w.page("o", keyset)

	rows, err := r.db.Query(ctx, sql, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var (
		views []*queries.OrderView
		ids   []uuid.UUID
		byID  = map[uuid.UUID]*queries.OrderView{}
	)
	for rows.Next() {
		var (
			v     queries.OrderView
			total int64
		)
		if err := rows.Scan(&v.ID, &v.CheckoutID, &v.UserID, &v.VendorID, &v.VendorName, &total,
			&v.Status, &v.EscrowStatus, &v.DeliveryAddress, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order", err)
		}
		v.TotalAmount = money.FromKobo(total)
		v.Items = []queries.OrderItemView{}
		views = append(views, &v)
		ids = append(ids, v.ID)
		byID[v.ID] = &v
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate orders", err)
	}
	if len(ids) == 0 {
		return views, nil
	}

	if err := r.attachItems(ctx, ids, byID); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *OrderReadStore) attachItems(ctx context.Context, ids []uuid.UUID, byID map[uuid.UUID]*queries.OrderView) error {
	rows, err := r.db.Query(ctx, `
		SELECT order_id, product_id, product_name, unit_price_kobo, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, product_name`, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to load order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			item    queries.OrderItemView
			price   int64
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &price, &item.Quantity); err != nil {
			return infra.WrapRepoErr("failed to scan order item", err)
		}
		item.UnitPrice = money.FromKobo(price)
		if item.LineTotal, err = item.UnitPrice.Mul(item.Quantity); err != nil {
			return infra.WrapRepoErr("order item total out of range", err)
		}
		if v, ok := byID[orderID]; ok {
			v.Items = append(v.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to iterate order items", err)
	}
	return nil
}
