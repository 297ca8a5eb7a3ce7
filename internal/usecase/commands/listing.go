package commands

import (
	"context"

	"mcdee-marketplace/internal/domain/listing"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrListingNotFound = errs.New("listing not found")

type ListingCommands interface {
	Create(ctx context.Context, vendorID uuid.UUID, req reqdto.ListingRequest) (uuid.UUID, error)
	Update(ctx context.Context, vendorID, listingID uuid.UUID, req reqdto.ListingRequest) error
	Deactivate(ctx context.Context, vendorID, listingID uuid.UUID) error
}

type listingCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewListingCommands(uow shared.UnitOfWork) ListingCommands {
	return &listingCommandsImpl{uow: uow}
}

func (c *listingCommandsImpl) Create(ctx context.Context, vendorID uuid.UUID, req reqdto.ListingRequest) (uuid.UUID, error) {
	l, err := listing.NewListing(vendorID, req.ToDomain())
	if err != nil {
		return uuid.Nil, domainErr(err)
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return repoErr(tx.Listings().Create(ctx, l), nil)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return l.ID(), nil
}

func (c *listingCommandsImpl) Update(ctx context.Context, vendorID, listingID uuid.UUID, req reqdto.ListingRequest) error {
	return c.mutate(ctx, listingID, func(l *listing.Listing) error {
		return l.Update(vendorID, req.ToDomain())
	})
}

// Deactivate hides the listing from the public catalogue; bookings keep it.
func (c *listingCommandsImpl) Deactivate(ctx context.Context, vendorID, listingID uuid.UUID) error {
	return c.mutate(ctx, listingID, func(l *listing.Listing) error {
		return l.Deactivate(vendorID)
	})
}

func (c *listingCommandsImpl) mutate(ctx context.Context, listingID uuid.UUID, fn func(l *listing.Listing) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		l, err := tx.Listings().FindByIDForUpdate(ctx, listingID)
		if err != nil {
			return repoErr(err, ErrListingNotFound)
		}
		if err := fn(l); err != nil {
			if errs.Is(err, listing.ErrNotOwner) {
				return errs.Mark(err, errs.ErrForbidden)
			}
			return domainErr(err)
		}
		return repoErr(tx.Listings().Update(ctx, l), ErrListingNotFound)
	})
}
