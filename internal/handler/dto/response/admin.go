package response

import (
	"time"

	"mcdee-marketplace/internal/pkg/money"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type KYCResponse struct {
	ID           uuid.UUID  `json:"id"`
	VendorID     uuid.UUID  `json:"vendor_id"`
	VendorName   string     `json:"vendor_name"`
	VendorEmail  string     `json:"vendor_email"`
	BusinessName string     `json:"business_name"`
	DocumentType string     `json:"document_type"`
	DocumentURL  string     `json:"document_url"`
	Status       string     `json:"status"`
	ReviewerID   *uuid.UUID `json:"reviewer_id,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type VendorResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	VendorCategory string    `json:"vendor_category"`
	KYCVerified    bool      `json:"kyc_verified"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type DashboardResponse struct {
	TotalUsers       int64            `json:"total_users"`
	TotalVendors     int64            `json:"total_vendors"`
	VerifiedVendors  int64            `json:"verified_vendors"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	PendingKYC       int64            `json:"pending_kyc"`
	EscrowHeld       money.Money      `json:"escrow_held"`
	EscrowReleased   money.Money      `json:"escrow_released"`
	Currency         string           `json:"currency"`
}

func FromKYCViews(vs []*queries.KYCView) ([]*KYCResponse, error) {
	return mapViews[KYCResponse](vs)
}

func FromVendorViews(vs []*queries.VendorView) ([]*VendorResponse, error) {
	return mapViews[VendorResponse](vs)
}

func FromDashboardStats(s *queries.DashboardStats) (*DashboardResponse, error) {
	r, err := mapView[DashboardResponse](s)
	if err != nil {
		return nil, err
	}
	r.Currency = money.Currency
	return r, nil
}
