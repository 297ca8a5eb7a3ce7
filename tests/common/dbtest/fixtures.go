//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// DBLike is what the fixtures need from a pool or transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DefaultPassword is the plaintext behind every fixture user's hash.
const DefaultPassword = "password123"

var (
	passwordHashOnce sync.Once
	passwordHash     string
)

func defaultPasswordHash(t *testing.T) string {
	passwordHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		require.NoError(t, err)
		passwordHash = string(hash)
	})
	return passwordHash
}

// CreateTestUser inserts an active user, or returns the id of the existing
// one with that email. Vendors get the apartment category and verified KYC
// unless the caller updates them afterwards.
func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	var category *string
	if role == "vendor" {
		c := "apartment"
		category = &c
	}

	ctx := context.Background()
	tag, err := db.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, vendor_category, kyc_verified, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		ON CONFLICT (email) DO NOTHING`,
		userID, strings.Split(email, "@")[0], email, defaultPasswordHash(t), role, category, role == "vendor")
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		err = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
		require.NoError(t, err)
	}

	return userID
}

func CreateTestListing(t *testing.T, db DBLike, vendorID uuid.UUID, city string, pricePerNightKobo int64) uuid.UUID {
	t.Helper()

	listingID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO listings (id, vendor_id, title, description, city, address, price_per_night_kobo, max_guests, bedrooms)
		VALUES ($1, $2, $3, '', $4, '', $5, 4, 2)`,
		listingID, vendorID, "Apartment in "+city, city, pricePerNightKobo)
	require.NoError(t, err)

	return listingID
}

func CreateTestProduct(t *testing.T, db DBLike, vendorID uuid.UUID, name string, priceKobo int64, stock int) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	_, err := db.Exec(context.Background(), `
		INSERT INTO products (id, vendor_id, name, description, category, price_kobo, stock_quantity)
		VALUES ($1, $2, $3, '', 'general', $4, $5)`,
		productID, vendorID, name, priceKobo, stock)
	require.NoError(t, err)

	return productID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every application table. goose's version table is kept.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
