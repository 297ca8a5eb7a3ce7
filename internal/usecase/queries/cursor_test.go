//go:build unit

package queries

import (
	"encoding/base64"
	"testing"
	"time"

	"mcdee-marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursor(t *testing.T) {
	id := uuid.New()
	at := time.Date(2030, 1, 4, 9, 30, 15, 123456789, time.UTC)

	t.Run("正常系: 往復でマイクロ秒精度が保たれる", func(t *testing.T) {
		gotTime, gotID, err := DecodeAfterCursor(EncodeAfterCursor(at, id))
		require.NoError(t, err)
		assert.Equal(t, at.Truncate(time.Microsecond), gotTime)
		assert.Equal(t, id, gotID)
	})

	invalid := map[string]string{
		"not base64":      "%%%",
		"unknown version": base64.RawURLEncoding.EncodeToString([]byte("v0:1:" + id.String())),
		"bad timestamp":   base64.RawURLEncoding.EncodeToString([]byte("v1:abc:" + id.String())),
		"bad id":          base64.RawURLEncoding.EncodeToString([]byte("v1:1:not-a-uuid")),
	}
	for name, cursor := range invalid {
		t.Run("異常系: "+name, func(t *testing.T) {
			_, _, err := DecodeAfterCursor(cursor)
			assert.Error(t, err)
		})
	}
}

func TestPageKeyset(t *testing.T) {
	t.Run("カーソルなしは既定の件数", func(t *testing.T) {
		k, err := Page{}.Keyset()
		require.NoError(t, err)
		assert.Nil(t, k.AfterTime)
		assert.Equal(t, DefaultListLimit, k.Limit)
	})

	t.Run("上限を超える件数は切り詰める", func(t *testing.T) {
		k, err := Page{Limit: 1000}.Keyset()
		require.NoError(t, err)
		assert.Equal(t, MaxListLimit, k.Limit)
	})

	t.Run("壊れたカーソルは ErrInvalidCursor", func(t *testing.T) {
		_, err := Page{After: "%%%"}.Keyset()
		assert.True(t, errs.Is(err, ErrInvalidCursor))
	})
}

func TestPaginate(t *testing.T) {
	type row struct {
		id uuid.UUID
		at time.Time
	}
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []row{{uuid.New(), base.Add(2 * time.Hour)}, {uuid.New(), base.Add(time.Hour)}, {uuid.New(), base}}
	key := func(r row) (time.Time, uuid.UUID) { return r.at, r.id }

	t.Run("余分な1行があれば次のカーソルを返す", func(t *testing.T) {
		list := paginate(rows, 2, key)
		require.Len(t, list.Items, 2)
		gotTime, gotID, err := DecodeAfterCursor(list.NextCursor)
		require.NoError(t, err)
		assert.Equal(t, rows[1].at, gotTime)
		assert.Equal(t, rows[1].id, gotID)
	})

	t.Run("最終ページはカーソルなし", func(t *testing.T) {
		list := paginate(rows, 3, key)
		assert.Len(t, list.Items, 3)
		assert.Empty(t, list.NextCursor)
	})

	t.Run("nil は空配列になる", func(t *testing.T) {
		list := paginate[row](nil, 2, key)
		assert.NotNil(t, list.Items)
		assert.Empty(t, list.Items)
	})
}
