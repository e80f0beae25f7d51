package model

import "time"

const (
	InputFeed   = "feed"
	InputUpload = "upload"
)

// TrendPoint is one (date bucket, label, count) entry of the trend series.
// Date is a UTC calendar day formatted as 2006-01-02.
type TrendPoint struct {
	Date  string
	Label string
	Count int
}

// AggregateSummary is a pure projection of a scored-article collection.
// Counts always carries all three labels; Trend holds one point per
// non-empty (day, label) group, sorted by date then label.
type AggregateSummary struct {
	Counts map[string]int
	Total  int
	Trend  []TrendPoint
}

// AnalysisRun records one complete pipeline invocation.
type AnalysisRun struct {
	ID           int64
	Keyword      string
	InputKind    string
	ArticleCount int
	DroppedCount int
	CreatedAt    time.Time
}
