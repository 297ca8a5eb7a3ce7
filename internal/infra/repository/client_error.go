package repository

import (
	"context"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/pgconv"
	"mcdee-marketplace/internal/usecase/shared"
)

type ClientErrorRepository struct {
	db db.DBTX
}

func NewClientErrorRepository(db db.DBTX) *ClientErrorRepository {
	return &ClientErrorRepository{db: db}
}

func (r *ClientErrorRepository) Create(ctx context.Context, rep shared.ClientErrorReport) error {
	var reportContext any
	if len(rep.Context) > 0 {
		reportContext = rep.Context
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO client_errors (user_id, message, context, url, user_agent)
		VALUES ($1, $2, $3, $4, $5)`,
		pgconv.UUIDPtrToPgtype(rep.UserID), rep.Message, reportContext, rep.URL, rep.UserAgent,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to store client error", err)
	}
	return nil
}
