package feed

import "marketmood/internal/normalize"

// Client fetches live news entries for a search keyword and exposes them as
// raw records for the normalizer. Transport failures surface as errors; a
// client never returns partial results alongside an error.
type Client interface {
	Search(keyword string, limit int) ([]normalize.Record, error)
	Name() string
}
