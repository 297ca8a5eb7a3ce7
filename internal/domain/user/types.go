package user

type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// VendorCategory is the marketplace vertical a vendor account sells in.
type VendorCategory string

const (
	CategoryApartment VendorCategory = "apartment"
	CategoryEcommerce VendorCategory = "ecommerce"
	CategoryFood      VendorCategory = "food"
	CategoryAuto      VendorCategory = "auto"
	CategoryRide      VendorCategory = "ride"
	CategoryServices  VendorCategory = "services"
)

func (c VendorCategory) String() string {
	return string(c)
}

func (c VendorCategory) IsValid() bool {
	switch c {
	case CategoryApartment, CategoryEcommerce, CategoryFood, CategoryAuto, CategoryRide, CategoryServices:
		return true
	default:
		return false
	}
}

func NewVendorCategory(s string) (VendorCategory, error) {
	c := VendorCategory(s)
	if !c.IsValid() {
		return "", ErrInvalidVendorCategory
	}
	return c, nil
}
