package queries

import (
	"context"

	"mcdee-marketplace/internal/domain/cart"
	"mcdee-marketplace/internal/pkg/errs"

	"github.com/google/uuid"
)

type CartQueries interface {
	// Get returns the cart grouped by vendor, in order of first appearance.
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
}

type CartReadStore interface {
	Lines(ctx context.Context, userID uuid.UUID) ([]cart.Line, error)
}

type cartQueriesImpl struct {
	store CartReadStore
}

func NewCartQueries(store CartReadStore) CartQueries {
	return &cartQueriesImpl{store: store}
}

func (q *cartQueriesImpl) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	lines, err := q.store.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	view, err := buildCartView(lines)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	return view, nil
}

func buildCartView(lines []cart.Line) (*CartView, error) {
	subtotal, err := cart.Subtotal(lines)
	if err != nil {
		return nil, err
	}
	groups, err := cart.GroupByVendor(lines)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		Groups:   []CartGroupView{},
		Subtotal: subtotal,
	}
	for _, g := range groups {
		group := CartGroupView{
			VendorID:   g.VendorID,
			VendorName: g.VendorName,
			Items:      make([]CartItemView, 0, len(g.Lines)),
			Subtotal:   g.Subtotal,
		}
		for _, l := range g.Lines {
			// Every line fits, or the subtotal above would have failed.
			lineTotal, _ := l.Total()
			group.Items = append(group.Items, CartItemView{
				ID:            l.ItemID,
				ProductID:     l.ProductID,
				ProductName:   l.ProductName,
				UnitPrice:     l.UnitPrice,
				Quantity:      l.Quantity,
				StockQuantity: l.StockQuantity,
				LineTotal:     lineTotal,
				CanIncrement:  cart.CanIncrement(l.Quantity, l.StockQuantity),
			})
			view.ItemCount += l.Quantity
		}
		view.Groups = append(view.Groups, group)
	}
	return view, nil
}
