package request

import (
	"mcdee-marketplace/internal/domain/user"
)

type RegisterRequest struct {
	Name           string  `json:"name" binding:"required,min=2,max=100"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          string  `json:"phone" binding:"omitempty,max=20"`
	Password       string  `json:"password" binding:"required,min=8,max=72"`
	Role           string  `json:"role" binding:"required,oneof=user vendor"`
	VendorCategory *string `json:"vendor_category,omitempty" binding:"omitempty,vendor_category"`
}

// ToDomain validates every field; passwordHash is computed by the caller
// once the plain password has passed NewPassword.
func (r *RegisterRequest) ToDomain(passwordHash string) (*user.User, error) {
	name, err := user.NewName(r.Name)
	if err != nil {
		return nil, err
	}
	email, err := user.NewEmail(r.Email)
	if err != nil {
		return nil, err
	}
	phone, err := user.NewPhone(r.Phone)
	if err != nil {
		return nil, err
	}
	role, err := user.NewRole(r.Role)
	if err != nil {
		return nil, err
	}

	var category *user.VendorCategory
	if r.VendorCategory != nil {
		c, err := user.NewVendorCategory(*r.VendorCategory)
		if err != nil {
			return nil, err
		}
		category = &c
	}

	return user.NewUser(name, email, phone, passwordHash, role, category)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToDomain() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}

// RefreshRequest is optional; the refresh cookie takes precedence.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
