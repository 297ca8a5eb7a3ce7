package response

import (
	"time"

	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type ServicePricingResponse struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       money.Money `json:"price"`
	IsActive    bool        `json:"is_active"`
}

type ServiceVendorResponse struct {
	ID           uuid.UUID                `json:"id"`
	UserID       uuid.UUID                `json:"user_id"`
	BusinessName string                   `json:"business_name"`
	Category     string                   `json:"category"`
	City         string                   `json:"city"`
	Description  string                   `json:"description"`
	KYCVerified  bool                     `json:"kyc_verified"`
	Pricing      []ServicePricingResponse `json:"pricing"`
}

type ServiceOrderResponse struct {
	ID              uuid.UUID   `json:"id"`
	ServiceVendorID uuid.UUID   `json:"service_vendor_id"`
	BusinessName    string      `json:"business_name"`
	VendorUserID    uuid.UUID   `json:"vendor_user_id"`
	PricingID       uuid.UUID   `json:"service_pricing_id"`
	PricingTitle    string      `json:"pricing_title"`
	UserID          uuid.UUID   `json:"user_id"`
	DeadlineDate    string      `json:"deadline"`
	Requirements    string      `json:"requirements"`
	Amount          money.Money `json:"amount"`
	Status          string      `json:"status"`
	EscrowStatus    string      `json:"escrow_status"`
	VendorNote      string      `json:"vendor_note,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func FromServiceVendors(vs []*queries.ServiceVendorView) ([]*ServiceVendorResponse, error) {
	out, err := mapViews[ServiceVendorResponse](vs)
	if err != nil {
		return nil, err
	}
	for _, r := range out {
		if r.Pricing == nil {
			r.Pricing = []ServicePricingResponse{}
		}
	}
	return out, nil
}

func FromServiceOrderView(v *queries.ServiceOrderView) (*ServiceOrderResponse, error) {
	r, err := mapView[ServiceOrderResponse](v)
	if err != nil {
		return nil, err
	}
	r.DeadlineDate = v.Deadline.Format(time.DateOnly)
	return r, nil
}

func FromServiceOrderList(l queries.List[*queries.ServiceOrderView]) (*ListResponse[ServiceOrderResponse], error) {
	return listOf(l, FromServiceOrderView)
}
