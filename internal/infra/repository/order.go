package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/escrow"
	"mcdee-marketplace/internal/domain/order"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(db db.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO orders (id, checkout_id, user_id, vendor_id, total_amount_kobo, status,
			escrow_status, delivery_address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		o.ID(), o.CheckoutID(), o.UserID(), o.VendorID(), o.TotalAmount().Kobo(),
		o.Status().String(), o.EscrowStatus().String(), o.DeliveryAddress(), o.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}

	for _, it := range o.Items() {
		_, err := r.db.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, unit_price_kobo, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			o.ID(), it.ProductID, it.ProductName, it.UnitPrice.Kobo(), it.Quantity,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var (
		oid, checkoutID, userID, vendorID uuid.UUID
		totalKobo                         int64
		status, escrowStatus, address     string
		createdAt, updatedAt              time.Time
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, checkout_id, user_id, vendor_id, total_amount_kobo, status, escrow_status,
			delivery_address, created_at, updated_at
		FROM orders WHERE id = $1 FOR UPDATE`, id,
	).Scan(&oid, &checkoutID, &userID, &vendorID, &totalKobo, &status, &escrowStatus,
		&address, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	items, err := r.items(ctx, oid)
	if err != nil {
		return nil, err
	}

	return order.ReconstructOrder(oid, checkoutID, userID, vendorID, items, money.FromKobo(totalKobo),
		order.Status(status), escrow.Status(escrowStatus), address, createdAt, updatedAt), nil
}

func (r *OrderRepository) items(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT product_id, product_name, unit_price_kobo, quantity
		FROM order_items WHERE order_id = $1 ORDER BY product_name`, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order items", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var (
			it        order.Item
			priceKobo int64
		)
		if err := rows.Scan(&it.ProductID, &it.ProductName, &priceKobo, &it.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		it.UnitPrice = money.FromKobo(priceKobo)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE orders SET status = $2, escrow_status = $3, updated_at = $4 WHERE id = $1`,
		o.ID(), o.Status().String(), o.EscrowStatus().String(), o.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}
