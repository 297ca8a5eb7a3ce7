//go:build unit

package listfilter_test

import (
	"testing"

	"mcdee-marketplace/internal/pkg/listfilter"

	"github.com/stretchr/testify/assert"
)

type row struct {
	id     int
	status string
}

func TestApply(t *testing.T) {
	rows := []row{{1, "pending"}, {2, "paid"}, {3, "pending"}}
	key := func(r row) string { return r.status }

	t.Run("all は入力をそのまま返す", func(t *testing.T) {
		assert.Equal(t, rows, listfilter.Apply(rows, "all", key))
		assert.Equal(t, rows, listfilter.Apply(rows, "", key))
		assert.Equal(t, rows, listfilter.Apply(rows, " ALL ", key))
	})

	t.Run("順序を保った部分列", func(t *testing.T) {
		got := listfilter.Apply(rows, "pending", key)
		assert.Equal(t, []row{{1, "pending"}, {3, "pending"}}, got)
	})

	t.Run("冪等", func(t *testing.T) {
		once := listfilter.Apply(rows, "paid", key)
		assert.Equal(t, once, listfilter.Apply(once, "paid", key))
	})

	t.Run("一致なしは空", func(t *testing.T) {
		assert.Empty(t, listfilter.Apply(rows, "refunded", key))
	})
}

func TestNormalize(t *testing.T) {
	assert.Nil(t, listfilter.Normalize("all"))
	assert.Nil(t, listfilter.Normalize(""))
	assert.Equal(t, "paid", *listfilter.Normalize(" paid "))
}
