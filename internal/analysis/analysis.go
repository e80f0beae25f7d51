package analysis

import (
	"time"

	"marketmood/internal/aggregate"
	"marketmood/internal/model"
	"marketmood/internal/normalize"
	"marketmood/internal/sentiment"
)

// Result is the full output of one pipeline invocation.
type Result struct {
	Articles []model.ScoredArticle
	Dropped  int
	Summary  model.AggregateSummary
}

// Engine runs the normalize → score → aggregate pipeline. It keeps no state
// across runs; each call is a pure function of its input records and the
// processing time.
type Engine struct {
	analyzer *sentiment.Analyzer
}

func NewEngine() *Engine {
	return &Engine{analyzer: sentiment.NewAnalyzer()}
}

func (e *Engine) Run(records []normalize.Record, now time.Time) *Result {
	items, dropped := normalize.Normalize(records, now)

	articles := make([]model.ScoredArticle, 0, len(items))
	for _, item := range items {
		articles = append(articles, model.ScoredArticle{
			NewsItem:  item,
			Sentiment: e.analyzer.Analyze(item.Summary),
		})
	}

	return &Result{
		Articles: articles,
		Dropped:  dropped,
		Summary:  aggregate.Summarize(articles),
	}
}
