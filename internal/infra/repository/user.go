package repository

import (
	"context"
	"time"

	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/internal/infra/db"
	"mcdee-marketplace/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, name, email, phone, password_hash, role, vendor_category,
	kyc_verified, last_login, is_active, created_at, updated_at`

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(db db.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	var category pgtype.Text
	if c := u.VendorCategory(); c != nil {
		category = pgconv.StringToPgtype(c.String())
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, role, vendor_category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID(), u.Name().Value(), u.Email().Value(), pgconv.OptionalText(u.Phone().Value()),
		u.PasswordHash(), u.Role().String(), category,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email.Value())
	u, err := scanUser(row)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by email", err)
	}
	return u, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}

func (r *UserRepository) SetKYCVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET kyc_verified = $2, updated_at = now() WHERE id = $1`, id, verified)
	if err != nil {
		return infra.WrapRepoErr("failed to update kyc flag", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		id                  uuid.UUID
		name, email, hash   string
		role                string
		phone, category     pgtype.Text
		kycVerified, active bool
		lastLogin           pgtype.Timestamptz
		createdAt           time.Time
		updatedAt           time.Time
	)
	if err := row.Scan(&id, &name, &email, &phone, &hash, &role, &category,
		&kycVerified, &lastLogin, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	// Stored rows were validated on the way in.
	n, _ := user.NewName(name)
	e, _ := user.NewEmail(email)
	p, _ := user.NewPhone(pgconv.StringFromPgtype(phone))
	var vc *user.VendorCategory
	if category.Valid {
		c := user.VendorCategory(category.String)
		vc = &c
	}

	return user.ReconstructUser(id, n, e, p, hash, user.Role(role), vc,
		kycVerified, pgconv.TimePtrFromPgtype(lastLogin), active, createdAt, updatedAt), nil
}
