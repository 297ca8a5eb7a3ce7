//go:build unit

package readstore

import (
	"context"
	"testing"
	"time"

	"mcdee-marketplace/internal/infra"
	"mcdee-marketplace/tests/common/dbtest"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func userRow(id uuid.UUID, email string, vendorCategory pgtype.Text) dbtest.Row {
	return dbtest.Row{Values: []any{
		id, "Ada Obi", email, pgtype.Text{String: "+2348000000000", Valid: true}, "vendor", vendorCategory,
		true, true, pgtype.Timestamptz{}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "$2a$12$hash",
	}}
}

func TestFindByEmail(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		row       dbtest.Row
		wantKind  infra.RepositoryErrorKind
		wantError bool
	}{
		{
			name: "success - vendor with category",
			row:  userRow(id, "ada@example.com", pgtype.Text{String: "apartment", Valid: true}),
		},
		{
			name:      "user not found",
			row:       dbtest.Row{Err: pgx.ErrNoRows},
			wantKind:  infra.KindNotFound,
			wantError: true,
		},
		{
			name:      "database error",
			row:       dbtest.Row{Err: assert.AnError},
			wantKind:  infra.KindDBFailure,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(dbtest.MockDBTX)
			mockDB.On("QueryRow", mock.Anything, mock.Anything, []any{"ada@example.com"}).Return(tt.row)

			store := NewUserReadStore(mockDB)
			view, hash, err := store.FindByEmail(context.Background(), "ada@example.com")

			if tt.wantError {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind))
				assert.Nil(t, view)
				assert.Empty(t, hash)
			} else {
				require.NoError(t, err)
				assert.Equal(t, id, view.ID)
				assert.Equal(t, "$2a$12$hash", hash)
				assert.Equal(t, "+2348000000000", view.Phone)
				require.NotNil(t, view.VendorCategory)
				assert.Equal(t, "apartment", *view.VendorCategory)
				assert.Nil(t, view.LastLogin)
			}
			mockDB.AssertExpectations(t)
		})
	}
}

func TestFindByID_ユーザーなし(t *testing.T) {
	id := uuid.New()
	mockDB := new(dbtest.MockDBTX)
	mockDB.On("QueryRow", mock.Anything, mock.Anything, []any{id}).Return(dbtest.Row{Err: pgx.ErrNoRows})

	view, err := NewUserReadStore(mockDB).FindByID(context.Background(), id)

	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.Nil(t, view)
}
