package sentiment

import "strings"

// PolarityScorer is a general-purpose polarity heuristic: it averages the
// polarities of matched lexicon words, flipping the sign after a negation
// and boosting after an intensifier. It carries no domain lexicon beyond
// common appraisal words, so it complements the VADER compound score rather
// than duplicating it.
type PolarityScorer struct{}

func NewPolarityScorer() *PolarityScorer {
	return &PolarityScorer{}
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true,
	"nor": true, "without": true, "hardly": true,
}

var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "highly": 1.3, "really": 1.2,
	"significantly": 1.3, "sharply": 1.4, "slightly": 0.7, "somewhat": 0.8,
}

// polarityLexicon maps lowercase words to polarities in [-1, 1].
var polarityLexicon = map[string]float64{
	// positive
	"good": 0.6, "great": 0.8, "excellent": 0.9, "strong": 0.5,
	"positive": 0.6, "gain": 0.5, "gains": 0.5, "profit": 0.6,
	"profits": 0.6, "profitable": 0.7, "growth": 0.5, "growing": 0.5,
	"record": 0.4, "rise": 0.4, "rises": 0.4, "rose": 0.4, "rising": 0.4,
	"surge": 0.6, "surges": 0.6, "soar": 0.7, "soars": 0.7, "soared": 0.7,
	"boost": 0.5, "boosts": 0.5, "rally": 0.5, "recovery": 0.5,
	"success": 0.7, "successful": 0.7, "win": 0.6, "wins": 0.6,
	"beat": 0.4, "beats": 0.4, "upgrade": 0.5, "upgraded": 0.5,
	"optimistic": 0.6, "confidence": 0.4, "improved": 0.5, "improvement": 0.5,
	"outperform": 0.6, "exceed": 0.5, "exceeds": 0.5, "exceeded": 0.5,
	"robust": 0.5, "bullish": 0.6, "opportunity": 0.4, "innovative": 0.5,
	// negative
	"bad": -0.6, "poor": -0.6, "terrible": -0.9, "weak": -0.5,
	"negative": -0.6, "loss": -0.5, "losses": -0.5, "decline": -0.5,
	"declines": -0.5, "declined": -0.5, "fall": -0.4, "falls": -0.4,
	"fell": -0.4, "falling": -0.4, "drop": -0.4, "drops": -0.4,
	"dropped": -0.4, "plunge": -0.7, "plunges": -0.7, "plunged": -0.7,
	"crash": -0.8, "crashes": -0.8, "crisis": -0.7, "fraud": -0.9,
	"scandal": -0.8, "lawsuit": -0.5, "fine": -0.4, "fined": -0.5,
	"penalty": -0.5, "layoff": -0.6, "layoffs": -0.6, "cuts": -0.4,
	"downgrade": -0.5, "downgraded": -0.5, "risk": -0.3, "risks": -0.3,
	"fear": -0.6, "fears": -0.6, "concern": -0.4, "concerns": -0.4,
	"warning": -0.5, "warns": -0.5, "fail": -0.7, "fails": -0.7,
	"failed": -0.7, "failure": -0.7, "bankruptcy": -0.9, "debt": -0.3,
	"bearish": -0.6, "slump": -0.6, "slumps": -0.6, "miss": -0.4,
	"misses": -0.4, "missed": -0.4, "trouble": -0.5, "investigation": -0.4,
	"probe": -0.4, "default": -0.7, "recession": -0.7, "turmoil": -0.7,
}

func (s *PolarityScorer) Score(text string) float64 {
	words := tokenize(text)
	if len(words) == 0 {
		return 0
	}

	var sum float64
	var matched int

	for i, w := range words {
		polarity, ok := polarityLexicon[w]
		if !ok {
			continue
		}

		weight := 1.0
		negated := false
		// look back up to two words for negations and intensifiers
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if negations[words[j]] {
				negated = true
			}
			if m, ok := intensifiers[words[j]]; ok {
				weight *= m
			}
		}

		if negated {
			polarity = -polarity * 0.5
		}

		sum += polarity * weight
		matched++
	}

	if matched == 0 {
		return 0
	}
	return clamp(sum / float64(matched))
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !('a' <= r && r <= 'z')
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
