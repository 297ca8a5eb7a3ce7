package response

import (
	"time"

	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProductResponse struct {
	ID            uuid.UUID   `json:"id"`
	VendorID      uuid.UUID   `json:"vendor_id"`
	VendorName    string      `json:"vendor_name"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	Price         money.Money `json:"price"`
	StockQuantity int         `json:"stock_quantity"`
	InStock       bool        `json:"in_stock"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func FromProductView(v *queries.ProductView) (*ProductResponse, error) {
	r, err := mapView[ProductResponse](v)
	if err != nil {
		return nil, err
	}
	r.InStock = v.StockQuantity > 0
	return r, nil
}

func FromProductList(l queries.List[*queries.ProductView]) (*ListResponse[ProductResponse], error) {
	return listOf(l, FromProductView)
}
