package handler

import (
	"time"

	"marketmood/internal/model"
)

type ArticleResponse struct {
	ID           int64   `json:"id,omitempty"`
	Title        string  `json:"title"`
	Summary      string  `json:"summary"`
	Source       string  `json:"source"`
	URL          string  `json:"url,omitempty"`
	PublishedAt  string  `json:"published_at"`
	DateInferred bool    `json:"date_inferred"`
	Polarity     float64 `json:"polarity"`
	Compound     float64 `json:"compound"`
	Label        string  `json:"label"`
	Urgency      string  `json:"urgency"`
}

type TrendPointResponse struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type SummaryResponse struct {
	Counts      map[string]int       `json:"counts"`
	Percentages map[string]float64   `json:"percentages"`
	Total       int                  `json:"total"`
	Trend       []TrendPointResponse `json:"trend"`
}

type AnalysisResponse struct {
	RunID     int64             `json:"run_id,omitempty"`
	Keyword   string            `json:"keyword"`
	InputKind string            `json:"input_kind"`
	Dropped   int               `json:"dropped"`
	Articles  []ArticleResponse `json:"articles"`
	Summary   SummaryResponse   `json:"summary"`
}

type RunResponse struct {
	ID           int64  `json:"id"`
	Keyword      string `json:"keyword"`
	InputKind    string `json:"input_kind"`
	ArticleCount int    `json:"article_count"`
	DroppedCount int    `json:"dropped_count"`
	CreatedAt    string `json:"created_at"`
}

type RunsResponse struct {
	Runs   []RunResponse `json:"runs"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func toArticleResponse(a model.ScoredArticle) ArticleResponse {
	return ArticleResponse{
		ID:           a.ID,
		Title:        a.Title,
		Summary:      a.Summary,
		Source:       a.Source,
		URL:          a.URL,
		PublishedAt:  a.PublishedAt.Format(time.RFC3339),
		DateInferred: a.DateInferred,
		Polarity:     a.Sentiment.Polarity,
		Compound:     a.Sentiment.Compound,
		Label:        a.Sentiment.Label,
		Urgency:      a.Sentiment.Urgency,
	}
}

func toSummaryResponse(s model.AggregateSummary) SummaryResponse {
	percentages := make(map[string]float64, len(s.Counts))
	for label, count := range s.Counts {
		if s.Total > 0 {
			percentages[label] = float64(count) / float64(s.Total) * 100
		} else {
			percentages[label] = 0
		}
	}

	trend := make([]TrendPointResponse, 0, len(s.Trend))
	for _, p := range s.Trend {
		trend = append(trend, TrendPointResponse{Date: p.Date, Label: p.Label, Count: p.Count})
	}

	return SummaryResponse{
		Counts:      s.Counts,
		Percentages: percentages,
		Total:       s.Total,
		Trend:       trend,
	}
}
