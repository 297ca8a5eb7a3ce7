package commands

import (
	"context"

	reqdto "mcdee-marketplace/internal/handler/dto/request"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/internal/usecase/shared"

	"github.com/google/uuid"
)

type ClientErrorCommands interface {
	// Report stores a browser-side failure. userID is nil for anonymous callers.
	Report(ctx context.Context, userID *uuid.UUID, req reqdto.ClientErrorRequest) error
}

type clientErrorCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewClientErrorCommands(uow shared.UnitOfWork) ClientErrorCommands {
	return &clientErrorCommandsImpl{uow: uow}
}

func (c *clientErrorCommandsImpl) Report(ctx context.Context, userID *uuid.UUID, req reqdto.ClientErrorRequest) error {
	report := shared.ClientErrorReport{
		UserID:    userID,
		Message:   req.Message,
		Context:   req.Context,
		URL:       req.URL,
		UserAgent: req.UserAgent,
	}
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.ClientErrors().Create(ctx, report); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}
