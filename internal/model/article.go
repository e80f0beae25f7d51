package model

import "time"

const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
	LabelNeutral  = "Neutral"

	UrgencyLow    = "Low"
	UrgencyMedium = "Medium"
	UrgencyHigh   = "High"
)

// NewsItem is one normalized record. After normalization every field except
// URL is non-empty; DateInferred marks items whose publish date could not be
// parsed and was substituted with the processing time.
type NewsItem struct {
	Title        string
	Summary      string
	Source       string
	URL          string
	PublishedAt  time.Time
	DateInferred bool
}

// SentimentResult holds both raw scores plus the reconciled label and
// urgency tier for one NewsItem.
type SentimentResult struct {
	Polarity float64
	Compound float64
	Label    string
	Urgency  string
}

type ScoredArticle struct {
	ID int64
	NewsItem
	Sentiment SentimentResult
}
