//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/pkg/clock"
	"mcdee-marketplace/internal/usecase/shared"
	sharedmock "mcdee-marketplace/tests/mock/shared"

	"github.com/jackc/pgx/v5"
	"go.uber.org/mock/gomock"
)

var testNow = time.Date(2029, 12, 1, 10, 0, 0, 0, time.UTC)

// fixture wires a UoW mock whose transactions run against one Tx mock with
// every repository available.
type fixture struct {
	ctrl          *gomock.Controller
	clock         *clock.MockClock
	uow           *sharedmock.MockUnitOfWork
	tx            *sharedmock.MockTx
	users         *sharedmock.MockUserRepository
	listings      *sharedmock.MockListingRepository
	bookings      *sharedmock.MockBookingRepository
	products      *sharedmock.MockProductRepository
	cart          *sharedmock.MockCartRepository
	orders        *sharedmock.MockOrderRepository
	payments      *sharedmock.MockPaymentRepository
	kyc           *sharedmock.MockKYCRepository
	serviceVendor *sharedmock.MockServiceVendorRepository
	serviceOrders *sharedmock.MockServiceOrderRepository
	idempotency   *sharedmock.MockIdempotencyRepository
	notifications *sharedmock.MockNotificationRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		ctrl:          ctrl,
		clock:         clock.NewMockClock(testNow),
		uow:           sharedmock.NewMockUnitOfWork(ctrl),
		tx:            sharedmock.NewMockTx(ctrl),
		users:         sharedmock.NewMockUserRepository(ctrl),
		listings:      sharedmock.NewMockListingRepository(ctrl),
		bookings:      sharedmock.NewMockBookingRepository(ctrl),
		products:      sharedmock.NewMockProductRepository(ctrl),
		cart:          sharedmock.NewMockCartRepository(ctrl),
		orders:        sharedmock.NewMockOrderRepository(ctrl),
		payments:      sharedmock.NewMockPaymentRepository(ctrl),
		kyc:           sharedmock.NewMockKYCRepository(ctrl),
		serviceVendor: sharedmock.NewMockServiceVendorRepository(ctrl),
		serviceOrders: sharedmock.NewMockServiceOrderRepository(ctrl),
		idempotency:   sharedmock.NewMockIdempotencyRepository(ctrl),
		notifications: sharedmock.NewMockNotificationRepository(ctrl),
	}
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()
	f.tx.EXPECT().Users().Return(f.users).AnyTimes()
	f.tx.EXPECT().Listings().Return(f.listings).AnyTimes()
	f.tx.EXPECT().Bookings().Return(f.bookings).AnyTimes()
	f.tx.EXPECT().Products().Return(f.products).AnyTimes()
	f.tx.EXPECT().Cart().Return(f.cart).AnyTimes()
	f.tx.EXPECT().Orders().Return(f.orders).AnyTimes()
	f.tx.EXPECT().Payments().Return(f.payments).AnyTimes()
	f.tx.EXPECT().KYC().Return(f.kyc).AnyTimes()
	f.tx.EXPECT().ServiceVendors().Return(f.serviceVendor).AnyTimes()
	f.tx.EXPECT().ServiceOrders().Return(f.serviceOrders).AnyTimes()
	f.tx.EXPECT().Idempotency().Return(f.idempotency).AnyTimes()
	f.tx.EXPECT().Notifications().Return(f.notifications).AnyTimes()
	return f
}

// expectFreshClaim lets the idempotency key be claimed for the first time.
func (f *fixture) expectFreshClaim() {
	f.idempotency.EXPECT().TryInsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), testNow.Add(IdempotencyWindow)).
		Return(true, nil)
}

// expectEvents accepts n outbox jobs on topic.
func (f *fixture) expectEvents(topic string, n int) {
	f.notifications.EXPECT().CreateJob(gomock.Any(), notificationKindDomainEvent, topic, gomock.Any(), testNow).
		Return(nil).Times(n)
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, pgx.ErrNoRows, infra.KindNotFound)
}
