package aggregate

import (
	"sort"

	"marketmood/internal/model"
)

// Summarize reduces a scored-article collection into label counts and a
// per-day trend series. It is a total function of its input: recomputing
// over the same collection yields a structurally identical summary.
func Summarize(articles []model.ScoredArticle) model.AggregateSummary {
	counts := map[string]int{
		model.LabelPositive: 0,
		model.LabelNegative: 0,
		model.LabelNeutral:  0,
	}

	type bucket struct {
		date  string
		label string
	}
	trendCounts := make(map[bucket]int)

	for _, a := range articles {
		counts[a.Sentiment.Label]++
		day := a.PublishedAt.UTC().Format("2006-01-02")
		trendCounts[bucket{date: day, label: a.Sentiment.Label}]++
	}

	trend := make([]model.TrendPoint, 0, len(trendCounts))
	for b, n := range trendCounts {
		trend = append(trend, model.TrendPoint{Date: b.date, Label: b.label, Count: n})
	}
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Date != trend[j].Date {
			return trend[i].Date < trend[j].Date
		}
		return trend[i].Label < trend[j].Label
	})

	return model.AggregateSummary{
		Counts: counts,
		Total:  len(articles),
		Trend:  trend,
	}
}
