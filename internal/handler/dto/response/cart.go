package response

import (
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type CartItemResponse struct {
	ID            uuid.UUID   `json:"id"`
	ProductID     uuid.UUID   `json:"product_id"`
	ProductName   string      `json:"product_name"`
	UnitPrice     money.Money `json:"unit_price"`
	Quantity      int         `json:"quantity"`
	StockQuantity int         `json:"stock_quantity"`
	LineTotal     money.Money `json:"line_total"`
	CanIncrement  bool        `json:"can_increment"`
}

type CartGroupResponse struct {
	VendorID   uuid.UUID          `json:"vendor_id"`
	VendorName string             `json:"vendor_name"`
	Items      []CartItemResponse `json:"items"`
	Subtotal   money.Money        `json:"subtotal"`
}

type CartResponse struct {
	Groups    []CartGroupResponse `json:"groups"`
	Subtotal  money.Money         `json:"subtotal"`
	ItemCount int                 `json:"item_count"`
	Currency  string              `json:"currency"`
}

func FromCartView(v *queries.CartView) (*CartResponse, error) {
	r, err := mapView[CartResponse](v)
	if err != nil {
		return nil, err
	}
	if r.Groups == nil {
		r.Groups = []CartGroupResponse{}
	}
	r.Currency = money.Currency
	return r, nil
}

// CheckoutResponse lists the per-vendor orders one checkout produced.
type CheckoutResponse struct {
	CheckoutID uuid.UUID        `json:"checkout_id"`
	Orders     []*OrderResponse `json:"orders"`
	Total      money.Money      `json:"total"`
}

func FromCheckout(checkoutID uuid.UUID, orders []*queries.OrderView) (*CheckoutResponse, error) {
	items, err := mapViews[OrderResponse](orders)
	if err != nil {
		return nil, err
	}
	r := &CheckoutResponse{CheckoutID: checkoutID, Orders: items, Total: money.Zero()}
	for _, o := range orders {
		if r.Total, err = r.Total.Add(o.TotalAmount); err != nil {
			return nil, err
		}
	}
	return r, nil
}
