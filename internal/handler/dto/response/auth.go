package response

import (
	"time"

	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserResponse struct {
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

// LoginResponse repeats the access token for clients that send it as a
// Bearer header instead of relying on the cookie.
type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresIn   int64         `json:"expires_in"`
	User        *UserResponse `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

func FromUserView(v *queries.UserView) (*UserResponse, error) {
	return mapView[UserResponse](v)
}
