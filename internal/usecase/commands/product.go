package commands

import (
	"context"

	"mcdee-marketplace/internal/domain/catalog"
	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrProductNotFound = errs.New("product not found")

type ProductCommands interface {
	Create(ctx context.Context, vendorID uuid.UUID, req reqdto.ProductRequest) (uuid.UUID, error)
	Update(ctx context.Context, vendorID, productID uuid.UUID, req reqdto.ProductRequest) error
	Deactivate(ctx context.Context, vendorID, productID uuid.UUID) error
}

type productCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewProductCommands(uow shared.UnitOfWork) ProductCommands {
	return &productCommandsImpl{uow: uow}
}

func (c *productCommandsImpl) Create(ctx context.Context, vendorID uuid.UUID, req reqdto.ProductRequest) (uuid.UUID, error) {
	p, err := catalog.NewProduct(vendorID, req.ToDomain())
	if err != nil {
		return uuid.Nil, domainErr(err)
	}
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return repoErr(tx.Products().Create(ctx, p), nil)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return p.ID(), nil
}

func (c *productCommandsImpl) Update(ctx context.Context, vendorID, productID uuid.UUID, req reqdto.ProductRequest) error {
	return c.mutate(ctx, productID, func(p *catalog.Product) error {
		return p.Update(vendorID, req.ToDomain())
	})
}

func (c *productCommandsImpl) Deactivate(ctx context.Context, vendorID, productID uuid.UUID) error {
	return c.mutate(ctx, productID, func(p *catalog.Product) error {
		return p.Deactivate(vendorID)
	})
}

func (c *productCommandsImpl) mutate(ctx context.Context, productID uuid.UUID, fn func(p *catalog.Product) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := tx.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return repoErr(err, ErrProductNotFound)
		}
		if err := fn(p); err != nil {
			if errs.Is(err, catalog.ErrNotOwner) {
				return errs.Mark(err, errs.ErrForbidden)
			}
			return domainErr(err)
		}
		return repoErr(tx.Products().Update(ctx, p), ErrProductNotFound)
	})
}
