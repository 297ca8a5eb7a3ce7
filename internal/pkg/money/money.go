// Package money holds Naira amounts as integer kobo (1 NGN = 100 kobo).
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const Currency = "NGN"

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrOverflow       = errors.New("amount out of range")
)

var maxKobo = decimal.NewFromInt(math.MaxInt64)

type Money struct {
	kobo int64
}

func Zero() Money { return Money{} }

func FromKobo(kobo int64) Money {
	return Money{kobo: kobo}
}

// FromNaira rounds half away from zero to the nearest kobo. Amounts that do
// not fit in int64 kobo are rejected.
func FromNaira(naira decimal.Decimal) (Money, error) {
	kobo := naira.Round(2).Shift(2)
	if kobo.Abs().GreaterThan(maxKobo) {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidAmount, naira.String())
	}
	return Money{kobo: kobo.IntPart()}, nil
}

func (m Money) Kobo() int64            { return m.kobo }
func (m Money) Naira() decimal.Decimal { return decimal.New(m.kobo, -2) }
func (m Money) IsZero() bool           { return m.kobo == 0 }
func (m Money) IsNegative() bool       { return m.kobo < 0 }
func (m Money) IsPositive() bool       { return m.kobo > 0 }
func (m Money) Equal(other Money) bool { return m.kobo == other.kobo }
func (m Money) String() string         { return m.Naira().StringFixed(2) }

// Add fails with ErrOverflow instead of wrapping.
func (m Money) Add(other Money) (Money, error) {
	sum := m.kobo + other.kobo
	if (other.kobo > 0 && sum < m.kobo) || (other.kobo < 0 && sum > m.kobo) {
		return Money{}, ErrOverflow
	}
	return Money{kobo: sum}, nil
}

// Mul fails with ErrOverflow instead of wrapping.
func (m Money) Mul(n int) (Money, error) {
	if m.kobo == 0 || n == 0 {
		return Zero(), nil
	}
	k := int64(n)
	product := m.kobo * k
	if product/k != m.kobo || (k == -1 && m.kobo == math.MinInt64) {
		return Money{}, ErrOverflow
	}
	return Money{kobo: product}, nil
}

// Normalize turns a price that may arrive as a JSON number, an integer,
// a decimal or a numeric string ("1500", "1,500.50", "₦ 1500") into Money.
func Normalize(v any) (Money, error) {
	var d decimal.Decimal
	switch x := v.(type) {
	case Money:
		return x, nil
	case decimal.Decimal:
		d = x
	case float64:
		d = decimal.NewFromFloat(x)
	case float32:
		d = decimal.NewFromFloat32(x)
	case int:
		d = decimal.NewFromInt(int64(x))
	case int32:
		d = decimal.NewFromInt32(x)
	case int64:
		d = decimal.NewFromInt(x)
	case json.Number:
		parsed, err := decimal.NewFromString(x.String())
		if err != nil {
			return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, x.String())
		}
		d = parsed
	case string:
		parsed, err := parseNumericString(x)
		if err != nil {
			return Money{}, err
		}
		d = parsed
	default:
		return Money{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}

	if d.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return FromNaira(d)
}

func parseNumericString(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "₦")
	cleaned = strings.TrimPrefix(cleaned, Currency)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// MarshalJSON writes the Naira value as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	if raw == nil {
		*m = Zero()
		return nil
	}

	parsed, err := Normalize(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
