package db

import (
	"context"
	"database/sql"

	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/pkg/errs"
	"mcdee-marketplace/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies goose migrations. command is one of up, down, status, or
// reset.
func Migrate(ctx context.Context, cfg config.DBConfig, command string) error {
	conn, err := sql.Open("pgx", cfg.BuildDSN())
	if err != nil {
		return errs.Wrap(err, "open db for migrations")
	}
	defer conn.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errs.Wrap(err, "set goose dialect")
	}

	switch command {
	case "up":
		err = goose.UpContext(ctx, conn, ".")
	case "down":
		err = goose.DownContext(ctx, conn, ".")
	case "status":
		err = goose.StatusContext(ctx, conn, ".")
	case "reset":
		err = goose.ResetContext(ctx, conn, ".")
	default:
		return errs.Newf("unknown migrate command %q", command)
	}
	if err != nil {
		return errs.Wrapf(err, "goose %s", command)
	}
	return nil
}
