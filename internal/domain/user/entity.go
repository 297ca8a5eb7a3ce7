package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	id             uuid.UUID
	name           Name
	email          Email
	phone          Phone
	passwordHash   string
	role           Role
	vendorCategory *VendorCategory
	kycVerified    bool
	lastLogin      *time.Time
	isActive       bool
	createdAt      time.Time
	updatedAt      time.Time
}

// NewUser builds a self-registered account. Only user and vendor roles may
// register; vendors must name their category.
func NewUser(name Name, email Email, phone Phone, passwordHash string, role Role, category *VendorCategory) (*User, error) {
	if role == RoleAdmin {
		return nil, ErrSelfRegisterAdmin
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if role == RoleVendor {
		if category == nil {
			return nil, ErrVendorCategoryMissing
		}
		if !category.IsValid() {
			return nil, ErrInvalidVendorCategory
		}
	} else {
		category = nil
	}

	return &User{
		id:             uuid.New(),
		name:           name,
		email:          email,
		phone:          phone,
		passwordHash:   passwordHash,
		role:           role,
		vendorCategory: category,
		isActive:       true,
	}, nil
}

func ReconstructUser(
	id uuid.UUID,
	name Name,
	email Email,
	phone Phone,
	passwordHash string,
	role Role,
	category *VendorCategory,
	kycVerified bool,
	lastLogin *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:             id,
		name:           name,
		email:          email,
		phone:          phone,
		passwordHash:   passwordHash,
		role:           role,
		vendorCategory: category,
		kycVerified:    kycVerified,
		lastLogin:      lastLogin,
		isActive:       isActive,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (u *User) ID() uuid.UUID                   { return u.id }
func (u *User) Name() Name                      { return u.name }
func (u *User) Email() Email                    { return u.email }
func (u *User) Phone() Phone                    { return u.phone }
func (u *User) PasswordHash() string            { return u.passwordHash }
func (u *User) Role() Role                      { return u.role }
func (u *User) VendorCategory() *VendorCategory { return u.vendorCategory }
func (u *User) KYCVerified() bool               { return u.kycVerified }
func (u *User) LastLogin() *time.Time           { return u.lastLogin }
func (u *User) IsActive() bool                  { return u.isActive }
func (u *User) CreatedAt() time.Time            { return u.createdAt }
func (u *User) UpdatedAt() time.Time            { return u.updatedAt }
