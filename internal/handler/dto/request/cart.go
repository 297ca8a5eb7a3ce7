package request

import "github.com/google/uuid"

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1"`
}

// QuantityOrDefault treats a missing quantity as one unit.
func (r AddCartItemRequest) QuantityOrDefault() int {
	if r.Quantity == 0 {
		return 1
	}
	return r.Quantity
}

// UpdateCartItemRequest leaves range checks to the cart rules so that zero is
// reported the same way as an amount above stock.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address" binding:"required,max=500"`
}
