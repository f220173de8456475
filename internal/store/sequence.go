package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/ymatsuda/clubhub/internal/notion"
)

// propID is the application-level sequence number every table carries,
// distinct from the store's opaque page identifier.
const propID = "_id"

// nextSequenceID allocates the next `_id` for a table: read the current
// maximum via a descending sort with page size 1, add one. The read and the
// caller's subsequent write are separate store calls with no isolation, so
// two concurrent writers can allocate the same id. Every writer in this
// package shares that weakness.
func nextSequenceID(ctx context.Context, client *notion.Client, databaseID string) (int64, error) {
	pages, err := client.QueryDatabase(ctx, databaseID, &notion.Query{
		Sorts:    []notion.Sort{{Property: propID, Direction: notion.Descending}},
		PageSize: 1,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read max id: %w", err)
	}
	if len(pages) == 0 {
		return 1, nil
	}
	maxID, _ := pages[0].Int(propID)
	return maxID + 1, nil
}

// isNotFound reports whether err is the store telling us a page or database
// does not exist.
func isNotFound(err error) bool {
	var apiErr *notion.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// normalizeName strips all whitespace from a login handle so lookups match
// regardless of spacing ("Alice Smith" == "AliceSmith").
func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
}
