package sentiment

import "github.com/jonreiter/govader"

// Scorer produces a bounded sentiment score in [-1, 1] for a piece of text,
// 0 meaning neutral. Implementations must be pure: the same text always
// yields the same score.
type Scorer interface {
	Score(text string) float64
}

// VaderScorer wraps the VADER lexicon-and-rule analyzer and exposes its
// compound score.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VaderScorer) Score(text string) float64 {
	if text == "" {
		return 0
	}
	return clamp(s.analyzer.PolarityScores(text).Compound)
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
