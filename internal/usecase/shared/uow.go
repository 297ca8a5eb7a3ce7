package shared

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/booking"
	"mcdee-marketplace/internal/domain/cart"
	"mcdee-marketplace/internal/domain/catalog"
	"mcdee-marketplace/internal/domain/kyc"
	"mcdee-marketplace/internal/domain/listing"
	"mcdee-marketplace/internal/domain/order"
	"mcdee-marketplace/internal/domain/payment"
	"mcdee-marketplace/internal/domain/serviceorder"
	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

// Tx hands out repositories bound to the running transaction.
type Tx interface {
	Users() UserRepository
	Listings() ListingRepository
	Bookings() BookingRepository
	Products() ProductRepository
	Cart() CartRepository
	Orders() OrderRepository
	ServiceVendors() ServiceVendorRepository
	ServiceOrders() ServiceOrderRepository
	Payments() PaymentRepository
	KYC() KYCRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	ClientErrors() ClientErrorRepository
	DB() db.DBTX
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email user.Email) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetKYCVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

type ListingRepository interface {
	Create(ctx context.Context, l *listing.Listing) error
	FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	// FindByIDForUpdate serialises bookings on the same listing.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*listing.Listing, error)
	Update(ctx context.Context, l *listing.Listing) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// HasOverlap looks for non-terminal bookings on the listing whose nights intersect stay.
	HasOverlap(ctx context.Context, listingID uuid.UUID, stay booking.Stay) (bool, error)
	UpdateStatus(ctx context.Context, b *booking.Booking) error
}

type ProductRepository interface {
	Create(ctx context.Context, p *catalog.Product) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	// FindManyForUpdate locks rows in id order so concurrent checkouts cannot deadlock.
	FindManyForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error)
	Update(ctx context.Context, p *catalog.Product) error
}

type CartRepository interface {
	Lines(ctx context.Context, userID uuid.UUID) ([]cart.Line, error)
	FindLine(ctx context.Context, userID, itemID uuid.UUID) (*cart.Line, error)
	FindLineByProduct(ctx context.Context, userID, productID uuid.UUID) (*cart.Line, error)
	Insert(ctx context.Context, userID, productID uuid.UUID, quantity int) (uuid.UUID, error)
	SetQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error)
	UpdateStatus(ctx context.Context, o *order.Order) error
}

type ServiceVendorRepository interface {
	UpsertProfile(ctx context.Context, p serviceorder.Profile) (uuid.UUID, error)
	FindIDByUserID(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	CreatePricing(ctx context.Context, serviceVendorID uuid.UUID, p serviceorder.Pricing) (uuid.UUID, error)
	FindPricing(ctx context.Context, pricingID uuid.UUID) (serviceorder.PricingSpec, error)
}

type ServiceOrderRepository interface {
	Create(ctx context.Context, o *serviceorder.ServiceOrder) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*serviceorder.ServiceOrder, error)
	Update(ctx context.Context, o *serviceorder.ServiceOrder) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByReferenceForUpdate(ctx context.Context, reference string) (*payment.Payment, error)
	FindOpenBySubject(ctx context.Context, subjectType payment.SubjectType, subjectID uuid.UUID) (*payment.Payment, error)
	FindSucceededBySubject(ctx context.Context, subjectType payment.SubjectType, subjectID uuid.UUID) (*payment.Payment, error)
	UpdateStatus(ctx context.Context, p *payment.Payment) error
	AbandonStale(ctx context.Context, createdBefore, now time.Time) (int64, error)
}

type KYCRepository interface {
	Create(ctx context.Context, s *kyc.Submission) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*kyc.Submission, error)
	UpdateReview(ctx context.Context, s *kyc.Submission) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key. It returns false when a live record already
	// exists; an expired record is taken over.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	Complete(ctx context.Context, key, userID uuid.UUID, resultID string) error
	Release(ctx context.Context, key, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	// ClaimBatch locks due queued jobs with SKIP LOCKED so several dispatchers can run.
	ClaimBatch(ctx context.Context, limit int, now time.Time) ([]NotificationJob, error)
	MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastError string, maxAttempts int, retryAt time.Time) error
}

type ClientErrorRepository interface {
	Create(ctx context.Context, r ClientErrorReport) error
}
