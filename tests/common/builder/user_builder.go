//go:build unit || e2e

package builder

import (
	"time"

	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Name           string
	Email          string
	Phone          string
	PasswordHash   string
	Role           string
	VendorCategory *string
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Name:         "Ada Obi",
		Email:        "test@example.com",
		Phone:        "08031234567",
		PasswordHash: "hashed_password",
		Role:         "user",
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	name, err := user.NewName(u.Name)
	if err != nil {
		return nil, err
	}
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}
	phone, err := user.NewPhone(u.Phone)
	if err != nil {
		return nil, err
	}
	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	var category *user.VendorCategory
	if u.VendorCategory != nil {
		c, err := user.NewVendorCategory(*u.VendorCategory)
		if err != nil {
			return nil, err
		}
		category = &c
	}

	return user.NewUser(name, email, phone, u.PasswordHash, role, category)
}

func (u *UserBuilder) BuildView() *queries.UserView {
	return &queries.UserView{
		ID:             uuid.New(),
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		Role:           u.Role,
		VendorCategory: u.VendorCategory,
		IsActive:       true,
		CreatedAt:      time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC),
	}
}

// Fluent builder methods
func (u *UserBuilder) WithName(name string) *UserBuilder {
	u.Name = name
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithPhone(phone string) *UserBuilder {
	u.Phone = phone
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) AsVendor(category string) *UserBuilder {
	u.Role = "vendor"
	u.VendorCategory = &category
	return u
}
