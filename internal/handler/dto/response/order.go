package response

import (
	"time"

	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderItemResponse struct {
	ProductID   uuid.UUID   `json:"product_id"`
	ProductName string      `json:"product_name"`
	UnitPrice   money.Money `json:"unit_price"`
	Quantity    int         `json:"quantity"`
	LineTotal   money.Money `json:"line_total"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	CheckoutID      uuid.UUID           `json:"checkout_id"`
	UserID          uuid.UUID           `json:"user_id"`
	VendorID        uuid.UUID           `json:"vendor_id"`
	VendorName      string              `json:"vendor_name"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     money.Money         `json:"total_amount"`
	Status          string              `json:"status"`
	EscrowStatus    string              `json:"escrow_status"`
	DeliveryAddress string              `json:"delivery_address"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

func FromOrderList(l queries.List[*queries.OrderView]) (*ListResponse[OrderResponse], error) {
	return listOf(l, func(v *queries.OrderView) (*OrderResponse, error) { return mapView[OrderResponse](v) })
}
