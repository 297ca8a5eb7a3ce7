//go:build unit || e2e

package builder

import (
	reqdto "mcdee-marketplace/internal/handler/dto/request"
)

type AuthBuilder struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
	Category *string
}

func NewAuthBuilder() *AuthBuilder {
	return &AuthBuilder{
		Name:     "Ada Obi",
		Email:    "test@example.com",
		Phone:    "08031234567",
		Password: "password123",
		Role:     "user",
	}
}

func (a *AuthBuilder) AsVendor(category string) *AuthBuilder {
	a.Role = "vendor"
	a.Category = &category
	return a
}

func (a *AuthBuilder) BuildDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    a.Email,
		Password: a.Password,
	}
}

func (a *AuthBuilder) BuildRegisterDTO() reqdto.RegisterRequest {
	return reqdto.RegisterRequest{
		Name:           a.Name,
		Email:          a.Email,
		Phone:          a.Phone,
		Password:       a.Password,
		Role:           a.Role,
		VendorCategory: a.Category,
	}
}

func (a *AuthBuilder) WithEmail(email string) *AuthBuilder {
	a.Email = email
	return a
}
