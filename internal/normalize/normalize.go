package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"marketmood/internal/model"
)

// Record is one raw ingested record before normalization, a loose mapping of
// field name to value as produced by the feed clients and upload parsers.
type Record map[string]string

var (
	summaryAliases   = []string{"summary", "description"}
	publishedAliases = []string{"published", "pubDate", "date"}
	urlAliases       = []string{"url", "link"}

	htmlTag = regexp.MustCompile(`<[^>]+>`)
)

// Normalize converts raw records into NewsItems, resolving missing fields to
// defaults. Records with neither title nor summary are dropped and counted.
// now is the processing time substituted for unparsable publish dates.
func Normalize(records []Record, now time.Time) ([]model.NewsItem, int) {
	items := make([]model.NewsItem, 0, len(records))
	dropped := 0

	for _, r := range records {
		title := strings.TrimSpace(r["title"])
		summary := StripHTML(lookup(r, summaryAliases))

		if title == "" && summary == "" {
			dropped++
			continue
		}

		if summary == "" {
			summary = title
		}

		source := strings.TrimSpace(r["source"])
		if source == "" {
			source = "unknown"
		}

		publishedAt, inferred := parsePublished(lookup(r, publishedAliases), now)

		items = append(items, model.NewsItem{
			Title:        title,
			Summary:      summary,
			Source:       source,
			URL:          strings.TrimSpace(lookup(r, urlAliases)),
			PublishedAt:  publishedAt,
			DateInferred: inferred,
		})
	}

	return items, dropped
}

// StripHTML removes markup tags and collapses surrounding whitespace.
func StripHTML(s string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(s, ""))
}

func lookup(r Record, aliases []string) string {
	for _, key := range aliases {
		if v := strings.TrimSpace(r[key]); v != "" {
			return v
		}
	}
	return ""
}

func parsePublished(raw string, now time.Time) (time.Time, bool) {
	if raw == "" {
		return now, true
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return now, true
	}
	return t, false
}
