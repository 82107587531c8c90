package entity

import "strings"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Filter carries the caller-supplied predicate and pagination window for
// listing employees. Zero values mean "not set".
type Filter struct {
	Department string
	Title      string
	Location   string
	Search     string
	Page       int
	Limit      int
}

// Window normalizes the pagination parameters: page defaults to 1, limit
// defaults to 10, is floored at 1 and capped at 100. Offset is derived from
// the normalized values.
func (f Filter) Window() (page, limit, offset int) {
	page = f.Page
	if page < 1 {
		page = 1
	}
	limit = f.Limit
	switch {
	case limit == 0:
		limit = DefaultPageLimit
	case limit < 1:
		limit = 1
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// SearchTokens normalizes a free-text search string into name tokens.
// Literal '+' characters are treated as spaces (progressive-typing clients
// send "jo+do"), surrounding whitespace is trimmed and internal runs
// collapse to single separators. Token 1 targets the first name, token 2 the
// last name; anything beyond that is ignored by the query builder.
func SearchTokens(search string) []string {
	return strings.Fields(strings.ReplaceAll(search, "+", " "))
}
