package queries

import (
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

type UserView struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Role           string     `json:"role"`
	VendorCategory *string    `json:"vendor_category,omitempty"`
	KYCVerified    bool       `json:"kyc_verified"`
	IsActive       bool       `json:"is_active"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ListingView struct {
	ID            uuid.UUID   `json:"id"`
	VendorID      uuid.UUID   `json:"vendor_id"`
	VendorName    string      `json:"vendor_name"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	City          string      `json:"city"`
	Address       string      `json:"address"`
	PricePerNight money.Money `json:"price_per_night"`
	MaxGuests     int         `json:"max_guests"`
	Bedrooms      int         `json:"bedrooms"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// BookingView is decorated with the status descriptor and the guest actions
// the status allows, so clients never map statuses themselves.
type BookingView struct {
	ID               uuid.UUID          `json:"id"`
	ListingID        uuid.UUID          `json:"listing_id"`
	ListingTitle     string             `json:"listing_title"`
	ListingCity      string             `json:"listing_city"`
	VendorID         uuid.UUID          `json:"vendor_id"`
	UserID           uuid.UUID          `json:"user_id"`
	UserName         string             `json:"user_name"`
	CheckIn          time.Time          `json:"check_in"`
	CheckOut         time.Time          `json:"check_out"`
	Nights           int                `json:"nights"`
	Guests           int                `json:"guests"`
	TotalPrice       money.Money        `json:"total_price"`
	Status           booking.Status     `json:"status"`
	StatusDescriptor booking.Descriptor `json:"status_descriptor"`
	AllowedActions   []booking.Action   `json:"allowed_actions"`
	EscrowStatus     string             `json:"escrow_status"`
	EscrowLabel      string             `json:"escrow_label"`
	Notes            string             `json:"notes,omitempty"`
	PaymentReference *string            `json:"payment_reference,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

type ProductView struct {
	ID            uuid.UUID   `json:"id"`
	VendorID      uuid.UUID   `json:"vendor_id"`
	VendorName    string      `json:"vendor_name"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Category      string      `json:"category"`
	Price         money.Money `json:"price"`
	StockQuantity int         `json:"stock_quantity"`
	IsActive      bool        `json:"is_active"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type CartItemView struct {
	ID            uuid.UUID   `json:"id"`
	ProductID     uuid.UUID   `json:"product_id"`
	ProductName   string      `json:"product_name"`
	UnitPrice     money.Money `json:"unit_price"`
	Quantity      int         `json:"quantity"`
	StockQuantity int         `json:"stock_quantity"`
	LineTotal     money.Money `json:"line_total"`
	CanIncrement  bool        `json:"can_increment"`
}

type CartGroupView struct {
	VendorID   uuid.UUID      `json:"vendor_id"`
	VendorName string         `json:"vendor_name"`
	Items      []CartItemView `json:"items"`
	Subtotal   money.Money    `json:"subtotal"`
}

type CartView struct {
	Groups    []CartGroupView `json:"groups"`
	Subtotal  money.Money     `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

type OrderItemView struct {
	ProductID   uuid.UUID   `json:"product_id"`
	ProductName string      `json:"product_name"`
	UnitPrice   money.Money `json:"unit_price"`
	Quantity    int         `json:"quantity"`
	LineTotal   money.Money `json:"line_total"`
}

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	CheckoutID      uuid.UUID       `json:"checkout_id"`
	UserID          uuid.UUID       `json:"user_id"`
	VendorID        uuid.UUID       `json:"vendor_id"`
	VendorName      string          `json:"vendor_name"`
	Items           []OrderItemView `json:"items"`
	TotalAmount     money.Money     `json:"total_amount"`
	Status          string          `json:"status"`
	EscrowStatus    string          `json:"escrow_status"`
	DeliveryAddress string          `json:"delivery_address"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type ServicePricingView struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Price       money.Money `json:"price"`
	IsActive    bool        `json:"is_active"`
}

type ServiceVendorView struct {
	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"user_id"`
	BusinessName string               `json:"business_name"`
	Category     string               `json:"category"`
	City         string               `json:"city"`
	Description  string               `json:"description"`
	KYCVerified  bool                 `json:"kyc_verified"`
	Pricing      []ServicePricingView `json:"pricing"`
}

type ServiceOrderView struct {
	ID              uuid.UUID   `json:"id"`
	ServiceVendorID uuid.UUID   `json:"service_vendor_id"`
	BusinessName    string      `json:"business_name"`
	VendorUserID    uuid.UUID   `json:"vendor_user_id"`
	PricingID       uuid.UUID   `json:"service_pricing_id"`
	PricingTitle    string      `json:"pricing_title"`
	UserID          uuid.UUID   `json:"user_id"`
	Deadline        time.Time   `json:"deadline"`
	Requirements    string      `json:"requirements"`
	Amount          money.Money `json:"amount"`
	Status          string      `json:"status"`
	EscrowStatus    string      `json:"escrow_status"`
	VendorNote      string      `json:"vendor_note,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

type KYCView struct {
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

type VendorView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	VendorCategory string    `json:"vendor_category"`
	KYCVerified    bool      `json:"kyc_verified"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}

type DashboardStats struct {
	TotalUsers       int64            `json:"total_users"`
	TotalVendors     int64            `json:"total_vendors"`
	VerifiedVendors  int64            `json:"verified_vendors"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	PendingKYC       int64            `json:"pending_kyc"`
	EscrowHeld       money.Money      `json:"escrow_held"`
	EscrowReleased   money.Money      `json:"escrow_released"`
}
