package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/staffdeck/directory-api/internal/employee/entity"
)

func TestBuildListQueryNoFilters(t *testing.T) {
	where, args, limit, offset := BuildListQuery(entity.Filter{})
	require.Empty(t, where)
	require.Empty(t, args)
	require.Equal(t, 10, limit)
	require.Equal(t, 0, offset)
}

func TestBuildListQueryFieldFilters(t *testing.T) {
	where, args, _, _ := BuildListQuery(entity.Filter{
		Department: "eng",
		Title:      "manager",
		Location:   "york",
	})
	require.Equal(t, " WHERE department ILIKE $1 AND title ILIKE $2 AND location ILIKE $3", where)
	require.Equal(t, []any{"%eng%", "%manager%", "%york%"}, args)
}

func TestBuildListQuerySearchTokens(t *testing.T) {
	where, args, _, _ := BuildListQuery(entity.Filter{Search: "jo do"})
	require.Equal(t, " WHERE first_name ILIKE $1 AND last_name ILIKE $2", where)
	require.Equal(t, []any{"%jo%", "%do%"}, args)
}

// "jo+do" and "jo do" compile to the same predicate.
func TestBuildListQueryPlusIsSpace(t *testing.T) {
	plusWhere, plusArgs, _, _ := BuildListQuery(entity.Filter{Search: "jo+do"})
	spaceWhere, spaceArgs, _, _ := BuildListQuery(entity.Filter{Search: "jo do"})
	require.Equal(t, spaceWhere, plusWhere)
	require.Equal(t, spaceArgs, plusArgs)
}

func TestBuildListQuerySearchSingleToken(t *testing.T) {
	where, args, _, _ := BuildListQuery(entity.Filter{Search: "  jo  "})
	require.Equal(t, " WHERE first_name ILIKE $1", where)
	require.Equal(t, []any{"%jo%"}, args)
}

func TestBuildListQuerySearchExtraTokensIgnored(t *testing.T) {
	where, args, _, _ := BuildListQuery(entity.Filter{Search: "jo do nathan extra"})
	require.Equal(t, " WHERE first_name ILIKE $1 AND last_name ILIKE $2", where)
	require.Len(t, args, 2)
}

func TestBuildListQueryWhitespaceOnlySearch(t *testing.T) {
	where, args, _, _ := BuildListQuery(entity.Filter{Search: "   \t "})
	require.Empty(t, where)
	require.Empty(t, args)
}

func TestBuildListQuerySearchCombinesWithFilters(t *testing.T) {
	where, args, _, _ := BuildListQuery(entity.Filter{Department: "eng", Search: "jo do"})
	require.Equal(t, " WHERE department ILIKE $1 AND first_name ILIKE $2 AND last_name ILIKE $3", where)
	require.Equal(t, []any{"%eng%", "%jo%", "%do%"}, args)
}

func TestBuildListQueryPagination(t *testing.T) {
	cases := []struct {
		name               string
		page, limit        int
		expLimit, expentry int
	}{
		{"defaults", 0, 0, 10, 0},
		{"third page", 3, 10, 10, 20},
		{"limit capped", 1, 500, 100, 0},
		{"limit floored", 2, -5, 1, 1},
		{"page floored", -1, 10, 10, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, limit, offset := BuildListQuery(entity.Filter{Page: c.page, Limit: c.limit})
			require.Equal(t, c.expLimit, limit)
			require.Equal(t, c.expentry, offset)
		})
	}
}
