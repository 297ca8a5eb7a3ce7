package queries

import (
	"context"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/order"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/pkg/listfilter"
	"mcdee-marketplace/internal/pkg/money"
)

const (
	VendorFilterVerified   = "verified"
	VendorFilterUnverified = "unverified"
)

type AdminQueries interface {
	// ListVendors filters by verification (all|verified|unverified) and category.
	ListVendors(ctx context.Context, status, category string) ([]*VendorView, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

// DashboardCounts is what the read store aggregates; missing statuses are
// simply absent from the maps.
type DashboardCounts struct {
	TotalUsers         int64
	TotalVendors       int64
	VerifiedVendors    int64
	BookingsByStatus   map[string]int64
	OrdersByStatus     map[string]int64
	PendingKYC         int64
	EscrowHeldKobo     int64
	EscrowReleasedKobo int64
}

type AdminReadStore interface {
	ListVendors(ctx context.Context) ([]*VendorView, error)
	Counts(ctx context.Context) (*DashboardCounts, error)
}

type adminQueriesImpl struct {
	store AdminReadStore
}

func NewAdminQueries(store AdminReadStore) AdminQueries {
	return &adminQueriesImpl{store: store}
}

func (q *adminQueriesImpl) ListVendors(ctx context.Context, status, category string) ([]*VendorView, error) {
	if !listfilter.IsAll(status) && status != VendorFilterVerified && status != VendorFilterUnverified {
		return nil, ErrInvalidStatusFilter
	}
	vendors, err := q.store.ListVendors(ctx)
	if err != nil {
		return nil, err
	}
	vendors = listfilter.Apply(vendors, status, func(v *VendorView) string {
		if v.KYCVerified {
			return VendorFilterVerified
		}
		return VendorFilterUnverified
	})
	return listfilter.Apply(vendors, category, func(v *VendorView) string { return v.VendorCategory }), nil
}

// Dashboard reports every booking and order status, zero when unused.
func (q *adminQueriesImpl) Dashboard(ctx context.Context) (*DashboardStats, error) {
	counts, err := q.store.Counts(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	stats := &DashboardStats{
		TotalUsers:       counts.TotalUsers,
		TotalVendors:     counts.TotalVendors,
		VerifiedVendors:  counts.VerifiedVendors,
		BookingsByStatus: make(map[string]int64, len(booking.AllStatuses())),
		OrdersByStatus:   make(map[string]int64, len(order.AllStatuses())),
		PendingKYC:       counts.PendingKYC,
		EscrowHeld:       money.FromKobo(counts.EscrowHeldKobo),
		EscrowReleased:   money.FromKobo(counts.EscrowReleasedKobo),
	}
	for _, s := range booking.AllStatuses() {
		stats.BookingsByStatus[s.String()] = counts.BookingsByStatus[s.String()]
	}
	for _, s := range order.AllStatuses() {
		stats.OrdersByStatus[s.String()] = counts.OrdersByStatus[s.String()]
	}
	return stats, nil
}
