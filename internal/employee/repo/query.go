package repo

import (
	"fmt"
	"strings"

	"github.com/staffdeck/directory-api/internal/employee/entity"
)

// BuildListQuery compiles a filter request into a bounded WHERE clause plus
// positional args and the pagination window. All active predicates combine
// with AND; substring matches are case-insensitive (ILIKE).
//
// The search string is tokenized by entity.SearchTokens: the first token
// matches first_name, the second matches last_name, the rest are dropped.
func BuildListQuery(f entity.Filter) (where string, args []any, limit, offset int) {
	var conds []string
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Department != "" {
		add("department ILIKE $%d", contains(f.Department))
	}
	if f.Title != "" {
		add("title ILIKE $%d", contains(f.Title))
	}
	if f.Location != "" {
		add("location ILIKE $%d", contains(f.Location))
	}

	tokens := entity.SearchTokens(f.Search)
	if len(tokens) > 0 {
		add("first_name ILIKE $%d", contains(tokens[0]))
	}
	if len(tokens) > 1 {
		add("last_name ILIKE $%d", contains(tokens[1]))
	}

	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	_, limit, offset = f.Window()
	return where, args, limit, offset
}

func contains(v string) string {
	return "%" + v + "%"
}
