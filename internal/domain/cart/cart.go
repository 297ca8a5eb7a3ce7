package cart

import (
	"errors"

	"mcdee-marketplace/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrQuantityOutOfRange = errors.New("quantity must be between 1 and available stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrItemNotFound       = errors.New("cart item not found")
)

// Line is one cart row joined with the product it refers to.
type Line struct {
	ItemID        uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	VendorID      uuid.UUID
	VendorName    string
	UnitPrice     money.Money
	Quantity      int
	StockQuantity int
}

func (l Line) Total() (money.Money, error) {
	return l.UnitPrice.Mul(l.Quantity)
}

// ValidateQuantity enforces 1 <= qty <= stock.
func ValidateQuantity(qty, stock int) error {
	if qty < 1 || qty > stock {
		return ErrQuantityOutOfRange
	}
	return nil
}

// CanIncrement is false once the line has reached available stock.
func CanIncrement(qty, stock int) bool {
	return qty < stock
}

// Merge adds qty to an existing line; the sum is still bounded by stock.
func Merge(existing, added, stock int) (int, error) {
	total := existing + added
	if added < 1 {
		return existing, ErrQuantityOutOfRange
	}
	if err := ValidateQuantity(total, stock); err != nil {
		return existing, err
	}
	return total, nil
}

// Subtotal is Σ unit price × quantity.
func Subtotal(lines []Line) (money.Money, error) {
	total := money.Zero()
	for _, l := range lines {
		line, err := l.Total()
		if err != nil {
			return money.Money{}, err
		}
		if total, err = total.Add(line); err != nil {
			return money.Money{}, err
		}
	}
	return total, nil
}

type VendorGroup struct {
	VendorID   uuid.UUID
	VendorName string
	Lines      []Line
	Subtotal   money.Money
}

// GroupByVendor splits lines per vendor. Groups keep the order in which each
// vendor first appears, and lines keep their order inside a group.
func GroupByVendor(lines []Line) ([]VendorGroup, error) {
	index := make(map[uuid.UUID]int)
	groups := make([]VendorGroup, 0)
	for _, l := range lines {
		i, ok := index[l.VendorID]
		if !ok {
			i = len(groups)
			index[l.VendorID] = i
			groups = append(groups, VendorGroup{VendorID: l.VendorID, VendorName: l.VendorName})
		}
		groups[i].Lines = append(groups[i].Lines, l)
	}
	for i := range groups {
		subtotal, err := Subtotal(groups[i].Lines)
		if err != nil {
			return nil, err
		}
		groups[i].Subtotal = subtotal
	}
	return groups, nil
}
