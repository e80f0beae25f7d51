package feed

import (
	"context"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"marketmood/internal/normalize"
)

// FinnhubClient fetches company news for a ticker keyword over the last
// week. It is enabled only when an API key is configured.
type FinnhubClient struct {
	client *finnhub.DefaultApiService
}

func NewFinnhubClient(apiKey string) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &FinnhubClient{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (c *FinnhubClient) Name() string {
	return "FinnHub"
}

func (c *FinnhubClient) Search(keyword string, limit int) ([]normalize.Record, error) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)

	res, _, err := c.client.CompanyNews(context.Background()).
		Symbol(strings.ToUpper(strings.TrimSpace(keyword))).
		From(from.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, err
	}

	records := make([]normalize.Record, 0, len(res))
	for _, news := range res {
		if limit > 0 && len(records) >= limit {
			break
		}

		record := normalize.Record{"source": c.Name()}

		if news.Headline != nil {
			record["title"] = *news.Headline
		}
		if news.Summary != nil {
			record["summary"] = *news.Summary
		}
		if news.Url != nil {
			record["url"] = *news.Url
		}
		if news.Datetime != nil {
			record["published"] = time.Unix(*news.Datetime, 0).UTC().Format(time.RFC3339)
		}
		if news.Source != nil && *news.Source != "" {
			record["source"] = *news.Source
		}

		records = append(records, record)
	}

	return records, nil
}
