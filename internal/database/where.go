package database

import (
	"fmt"
	"strings"
)

// whereBuilder assembles a parameterized WHERE clause. Empty values are
// skipped so optional filters need no branching at the call site.
type whereBuilder struct {
	conds []string
	args  []any
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{}
}

// Add appends "col = $n" when value is non-empty. col must be a trusted
// identifier.
func (wb *whereBuilder) Add(col, value string) {
	if value == "" {
		return
	}
	wb.args = append(wb.args, value)
	wb.conds = append(wb.conds, fmt.Sprintf("%s = $%d", col, len(wb.args)))
}

// AddSearch matches text case-insensitively as a substring of any of cols.
func (wb *whereBuilder) AddSearch(text string, cols ...string) {
	if text == "" || len(cols) == 0 {
		return
	}
	wb.args = append(wb.args, "%"+escapeLike(text)+"%")
	n := len(wb.args)
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", c, n)
	}
	wb.conds = append(wb.conds, "("+strings.Join(parts, " OR ")+")")
}

// NextArgIndex returns the placeholder number the next argument will use.
func (wb *whereBuilder) NextArgIndex() int {
	return len(wb.args) + 1
}

// Build returns the clause with a leading " WHERE ", or "" when empty.
func (wb *whereBuilder) Build() (string, []any) {
	if len(wb.conds) == 0 {
		return "", wb.args
	}
	return " WHERE " + strings.Join(wb.conds, " AND "), wb.args
}
