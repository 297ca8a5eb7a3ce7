package request

import (
	"mcdee-marketplace/internal/domain/catalog"
	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/pkg/ptr"
)

type ProductRequest struct {
	Name          string      `json:"name" binding:"required,max=200"`
	Description   string      `json:"description" binding:"max=5000"`
	Category      string      `json:"category" binding:"max=100"`
	Price         money.Money `json:"price"`
	StockQuantity *int        `json:"stock_quantity" binding:"required,min=0"`
}

func (r ProductRequest) ToDomain() catalog.Details {
	return catalog.Details{
		Name:          r.Name,
		Description:   r.Description,
		Category:      r.Category,
		Price:         r.Price,
		StockQuantity: ptr.Deref(r.StockQuantity),
	}
}
