package ptr

func Of[T any](v T) *T {
	return &v
}

// Deref returns the zero value for nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// NilIfZero returns nil when v is the zero value of T.
func NilIfZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
