package response

import (
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

// mapView copies a read model into its response type. Response types mirror
// their views field by field, so a copy error means the two drifted apart.
func mapView[T any](src any) (*T, error) {
	var dst T
	if err := copier.Copy(&dst, src); err != nil {
		return nil, errs.Wrapf(err, "failed to map %T to response", src)
	}
	return &dst, nil
}

func mapViews[T any, V any](src []V) ([]*T, error) {
	return mapEach(src, func(v V) (*T, error) { return mapView[T](v) })
}

func mapEach[T any, V any](src []V, fn func(V) (*T, error)) ([]*T, error) {
	out := make([]*T, 0, len(src))
	for _, v := range src {
		r, err := fn(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// ListResponse is one keyset page. NextCursor is empty on the last page.
type ListResponse[T any] struct {
	Items      []*T   `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// listOf maps one page of views with fn.
func listOf[T any, V any](l queries.List[V], fn func(V) (*T, error)) (*ListResponse[T], error) {
	items, err := mapEach(l.Items, fn)
	if err != nil {
		return nil, err
	}
	return &ListResponse[T]{Items: items, NextCursor: l.NextCursor}, nil
}
