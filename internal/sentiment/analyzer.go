package sentiment

import (
	"math"
	"strings"

	"marketmood/internal/model"
)

// Classification thresholds. The neutral band matches VADER's documented
// bounds; the tie-break threshold decides when a clear polarity lean
// overrides a neutral compound score.
const (
	neutralBand       = 0.05
	tieBreakThreshold = 0.3

	urgencyHighCutoff   = 0.6
	urgencyMediumCutoff = 0.2
)

// Analyzer combines a polarity scorer and a compound scorer into one
// reconciled judgment per text. It holds no mutable state and is safe for
// concurrent use.
type Analyzer struct {
	polarity Scorer
	compound Scorer
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		polarity: NewPolarityScorer(),
		compound: NewVaderScorer(),
	}
}

// NewAnalyzerWith builds an Analyzer over explicit scorers. Any scorer
// honoring the bounded-score contract may be substituted.
func NewAnalyzerWith(polarity, compound Scorer) *Analyzer {
	return &Analyzer{polarity: polarity, compound: compound}
}

// Analyze scores one text. Empty text yields the neutral result; it is
// never an error.
func (a *Analyzer) Analyze(text string) model.SentimentResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.SentimentResult{
			Label:   model.LabelNeutral,
			Urgency: model.UrgencyLow,
		}
	}

	polarity := a.polarity.Score(text)
	compound := a.compound.Score(text)

	return model.SentimentResult{
		Polarity: polarity,
		Compound: compound,
		Label:    reconcile(polarity, compound),
		Urgency:  urgency(compound),
	}
}

// reconcile classifies on the compound score, with the polarity score
// breaking the tie when the compound falls inside the neutral band. The
// order of these checks is load-bearing.
func reconcile(polarity, compound float64) string {
	switch {
	case compound >= neutralBand:
		return model.LabelPositive
	case compound <= -neutralBand:
		return model.LabelNegative
	case polarity > tieBreakThreshold:
		return model.LabelPositive
	case polarity < -tieBreakThreshold:
		return model.LabelNegative
	default:
		return model.LabelNeutral
	}
}

// urgency measures intensity, not direction: it depends only on the
// compound magnitude.
func urgency(compound float64) string {
	switch m := math.Abs(compound); {
	case m >= urgencyHighCutoff:
		return model.UrgencyHigh
	case m >= urgencyMediumCutoff:
		return model.UrgencyMedium
	default:
		return model.UrgencyLow
	}
}
