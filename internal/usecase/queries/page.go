package queries

import (
	"time"

	"mcdee-marketplace/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidCursor = errs.New("invalid cursor")

// Page is a keyset page request over (created_at, id), newest first.
type Page struct {
	After string
	Limit int
}

// Keyset is a decoded Page ready for a read store.
type Keyset struct {
	AfterTime *time.Time
	AfterID   uuid.UUID
	Limit     int
}

func (p Page) Keyset() (Keyset, error) {
	k := Keyset{Limit: ValidateLimit(p.Limit)}
	if p.After == "" {
		return k, nil
	}
	t, id, err := DecodeAfterCursor(p.After)
	if err != nil {
		return Keyset{}, errs.Mark(err, ErrInvalidCursor)
	}
	k.AfterTime = &t
	k.AfterID = id
	return k, nil
}

type List[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// paginate trims the extra row a read store fetched with limit+1 and turns
// it into the next cursor.
func paginate[T any](rows []T, limit int, key func(T) (time.Time, uuid.UUID)) List[T] {
	if rows == nil {
		rows = []T{}
	}
	if len(rows) <= limit {
		return List[T]{Items: rows}
	}
	page := rows[:limit]
	t, id := key(page[len(page)-1])
	return List[T]{Items: page, NextCursor: EncodeAfterCursor(t, id)}
}
