package readstore

import (
	"strconv"
	"strings"

	"mcdee-marketplace/internal/usecase/queries"
)

// where collects AND-ed predicates and numbers their placeholders in order.
// A clause writes "?" for each argument it binds.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	var b strings.Builder
	n := 0
	for _, r := range clause {
		if r == '?' && n < len(args) {
			w.args = append(w.args, args[n])
			b.WriteString("$" + strconv.Itoa(len(w.args)))
			n++
			continue
		}
		b.WriteRune(r)
	}
	w.clauses = append(w.clauses, b.String())
}

// keyset pages newest first on (created_at, id) of the given table alias.
func (w *where) keyset(alias string, k queries.Keyset) {
	if k.AfterTime == nil {
		return
	}
	w.add("("+alias+".created_at, "+alias+".id) < (?, ?)", *k.AfterTime, k.AfterID)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends the ordering and the limit+1 that lets the caller detect a
// next page.
func (w *where) page(alias string, k queries.Keyset) string {
	w.args = append(w.args, k.Limit+1)
	return " ORDER BY " + alias + ".created_at DESC, " + alias + ".id DESC LIMIT $" + strconv.Itoa(len(w.args))
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
