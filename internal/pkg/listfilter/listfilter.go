package listfilter

import "strings"

// All is the filter value that keeps every item.
const All = "all"

// IsAll reports whether value means "no filtering".
func IsAll(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || strings.EqualFold(v, All)
}

// Apply returns the items whose key equals value, in their original order.
// An empty or "all" value returns items unchanged, so repeated application is stable.
func Apply[T any](items []T, value string, key func(T) string) []T {
	if IsAll(value) {
		return items
	}

	want := strings.TrimSpace(value)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if key(it) == want {
			out = append(out, it)
		}
	}
	return out
}

// Normalize maps "" and "all" to nil so read stores can skip the predicate.
func Normalize(value string) *string {
	if IsAll(value) {
		return nil
	}
	v := strings.TrimSpace(value)
	return &v
}
