//go:build unit

package queries_test

import (
	"context"
	"testing"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/order"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/queries"
	queriesmock "mcdee-marketplace/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAdminQueries_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("未使用のステータスも0で全て返す", func(t *testing.T) {
		store := queriesmock.NewMockAdminReadStore(gomock.NewController(t))
		store.EXPECT().Counts(gomock.Any()).Return(&queries.DashboardCounts{
			TotalUsers:         12,
			TotalVendors:       4,
			VerifiedVendors:    3,
			BookingsByStatus:   map[string]int64{"paid": 2, "cancelled": 1},
			OrdersByStatus:     map[string]int64{"pending": 5},
			PendingKYC:         1,
			EscrowHeldKobo:     7500000,
			EscrowReleasedKobo: 150050,
		}, nil)

		stats, err := queries.NewAdminQueries(store).Dashboard(ctx)
		require.NoError(t, err)

		wantBookings := map[string]int64{}
		for _, s := range booking.AllStatuses() {
			wantBookings[s.String()] = 0
		}
		wantBookings["paid"] = 2
		wantBookings["cancelled"] = 1
		if diff := cmp.Diff(wantBookings, stats.BookingsByStatus); diff != "" {
			t.Errorf("bookings by status mismatch (-want +got):\n%s", diff)
		}

		require.Len(t, stats.OrdersByStatus, len(order.AllStatuses()))
		for _, s := range order.AllStatuses() {
			_, ok := stats.OrdersByStatus[s.String()]
			assert.True(t, ok, "missing order status %s", s)
		}
		assert.Equal(t, int64(5), stats.OrdersByStatus["pending"])

		assert.Equal(t, int64(12), stats.TotalUsers)
		assert.Equal(t, "75000.00", stats.EscrowHeld.String())
		assert.Equal(t, "1500.50", stats.EscrowReleased.String())
	})

	t.Run("empty store still lists every status", func(t *testing.T) {
		store := queriesmock.NewMockAdminReadStore(gomock.NewController(t))
		store.EXPECT().Counts(gomock.Any()).Return(&queries.DashboardCounts{}, nil)

		stats, err := queries.NewAdminQueries(store).Dashboard(ctx)
		require.NoError(t, err)
		assert.Len(t, stats.BookingsByStatus, len(booking.AllStatuses()))
		for _, n := range stats.BookingsByStatus {
			assert.Zero(t, n)
		}
		assert.True(t, stats.EscrowHeld.IsZero())
	})

	t.Run("store failure is a database error", func(t *testing.T) {
		store := queriesmock.NewMockAdminReadStore(gomock.NewController(t))
		store.EXPECT().Counts(gomock.Any()).Return(nil, errs.New("conn reset"))

		_, err := queries.NewAdminQueries(store).Dashboard(ctx)
		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed))
	})
}

func TestAdminQueries_ListVendors(t *testing.T) {
	ctx := context.Background()
	verifiedFood := &queries.VendorView{ID: uuid.New(), Name: "Mama Put", VendorCategory: "food", KYCVerified: true}
	unverifiedFood := &queries.VendorView{ID: uuid.New(), Name: "Suya Spot", VendorCategory: "food"}
	verifiedStay := &queries.VendorView{ID: uuid.New(), Name: "Ade Stays", VendorCategory: "apartment", KYCVerified: true}
	all := []*queries.VendorView{verifiedFood, unverifiedFood, verifiedStay}

	tests := []struct {
		name     string
		status   string
		category string
		want     []*queries.VendorView
	}{
		{name: "フィルタなし", want: all},
		{name: "all", status: "all", want: all},
		{name: "verified", status: "verified", want: []*queries.VendorView{verifiedFood, verifiedStay}},
		{name: "unverified", status: "unverified", want: []*queries.VendorView{unverifiedFood}},
		{name: "verified × category", status: "verified", category: "food", want: []*queries.VendorView{verifiedFood}},
		{name: "該当なし", status: "unverified", category: "apartment", want: []*queries.VendorView{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := queriesmock.NewMockAdminReadStore(gomock.NewController(t))
			store.EXPECT().ListVendors(gomock.Any()).Return(all, nil)

			got, err := queries.NewAdminQueries(store).ListVendors(ctx, tt.status, tt.category)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("error: unknown verification filter", func(t *testing.T) {
		store := queriesmock.NewMockAdminReadStore(gomock.NewController(t))

		_, err := queries.NewAdminQueries(store).ListVendors(ctx, "pending", "")
		assert.True(t, errs.Is(err, queries.ErrInvalidStatusFilter))
	})
}
