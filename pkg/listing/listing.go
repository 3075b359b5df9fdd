package listing

import (
	"fmt"
	"strings"
)

const (
	// DefaultOrderBy sorts newest-first, matching every entity's default view.
	DefaultOrderBy = "-created_date"
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 500
)

// Params holds the uniform list inputs accepted by every repository.
type Params struct {
	// OrderBy names the sort column; a leading "-" means descending.
	OrderBy string
	// Limit truncates the result after sorting; zero means no limit.
	Limit int
}

// Normalize fills the default ordering and clamps the limit.
func (p Params) Normalize() Params {
	if strings.TrimSpace(p.OrderBy) == "" {
		p.OrderBy = DefaultOrderBy
	}
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// OrderClause converts "-field" notation into a SQL ORDER BY fragment,
// rejecting columns outside the caller's allowlist so raw input can never
// reach the query text.
func (p Params) OrderClause(allowed []string) (string, error) {
	orderBy := strings.TrimSpace(p.OrderBy)
	if orderBy == "" {
		orderBy = DefaultOrderBy
	}

	column := orderBy
	direction := "ASC"
	if strings.HasPrefix(orderBy, "-") {
		column = orderBy[1:]
		direction = "DESC"
	}

	for _, candidate := range allowed {
		if candidate == column {
			return fmt.Sprintf("%s %s", column, direction), nil
		}
	}
	return "", fmt.Errorf("unsortable column %q", column)
}
