package query

import (
	"fmt"
	"strings"
)

// ListSortColumns is the sort allow-list for the complex listing endpoint,
// mapping API field names to columns.
var ListSortColumns = map[string]string{
	"name":       "name",
	"buildYear":  "build_year",
	"totalCount": "total_count",
	"createdAt":  "created_at",
}

// Page is a resolved offset/limit/ordering descriptor.
type Page struct {
	Offset int
	Limit  int
	Order  string
}

// ResolvePage normalizes page/limit/sort inputs into a Page. sortBy must be
// present in the allow-list; unrecognized values are rejected, never silently
// ignored. Tiebreak columns are appended to the ordering so that repeated
// calls against unchanged data paginate reproducibly.
func ResolvePage(page, limit int, sortBy, sortOrder string, allowed map[string]string, tiebreaks ...string) (Page, error) {
	if page < 1 {
		page = 1
	}

	column, ok := allowed[sortBy]
	if !ok {
		return Page{}, fmt.Errorf("unsupported sort field: %s", sortBy)
	}

	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}

	order := column + " " + direction
	for _, tiebreak := range tiebreaks {
		if tiebreak == column {
			continue
		}
		order += ", " + tiebreak + " ASC"
	}

	return Page{
		Offset: (page - 1) * limit,
		Limit:  limit,
		Order:  order,
	}, nil
}
