package readstore

import (
	"context"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/pgconv"
	"mcdee-marketplace/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const userViewColumns = `id, name, email, phone, role, vendor_category, kyc_verified, is_active, last_login, created_at`

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(db db.DBTX) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userViewColumns+`, password_hash FROM users WHERE id = $1`, id)
	v, _, err := scanUserView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return v, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.UserView, string, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userViewColumns+`, password_hash FROM users WHERE email = lower($1)`, email)
	v, hash, err := scanUserView(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return v, hash, nil
}

func scanUserView(row rowScanner) (*queries.UserView, string, error) {
	var (
		v              queries.UserView
		phone          pgtype.Text
		vendorCategory pgtype.Text
		lastLogin      pgtype.Timestamptz
		hash           string
	)
	if err := row.Scan(
		&v.ID, &v.Name, &v.Email, &phone, &v.Role, &vendorCategory,
		&v.KYCVerified, &v.IsActive, &lastLogin, &v.CreatedAt, &hash,
	); err != nil {
		return nil, "", err
	}
	v.Phone = pgconv.StringFromPgtype(phone)
	v.VendorCategory = pgconv.StringPtrFromPgtype(vendorCategory)
	v.LastLogin = pgconv.TimePtrFromPgtype(lastLogin)
	return &v, hash, nil
}
