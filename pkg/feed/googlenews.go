package feed

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"marketmood/internal/normalize"
)

const googleNewsBaseURL = "https://news.google.com/rss/search"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// GoogleNewsClient searches the Google News RSS endpoint for a keyword.
type GoogleNewsClient struct {
	baseURL    string
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewGoogleNewsClient() *GoogleNewsClient {
	return &GoogleNewsClient{
		baseURL:    googleNewsBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		parser:     gofeed.NewParser(),
	}
}

func (c *GoogleNewsClient) Name() string {
	return "GoogleNews"
}

func (c *GoogleNewsClient) Search(keyword string, limit int) ([]normalize.Record, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("hl", "en")
	params.Set("gl", "US")
	params.Set("ceid", "US:en")

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("googlenews request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("googlenews fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("googlenews fetch: status %d", resp.StatusCode)
	}

	parsed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("googlenews parse: %w", err)
	}

	records := make([]normalize.Record, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if limit > 0 && len(records) >= limit {
			break
		}

		record := normalize.Record{
			"title":   item.Title,
			"summary": item.Description,
			"url":     item.Link,
			"source":  sourceFromLink(item.Link),
		}
		if item.PublishedParsed != nil {
			record["published"] = item.PublishedParsed.Format(time.RFC3339)
		} else {
			record["published"] = item.Published
		}

		records = append(records, record)
	}

	return records, nil
}

// sourceFromLink falls back to the article host when the feed entry carries
// no explicit source element.
func sourceFromLink(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}
