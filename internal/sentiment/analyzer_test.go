package sentiment

import (
	"testing"

	"github.com/go-playground/assert/v2"

	"marketmood/internal/model"
)

// fixedScorer returns a constant score regardless of input.
type fixedScorer struct {
	score float64
}

func (f fixedScorer) Score(string) float64 { return f.score }

func newFixedAnalyzer(polarity, compound float64) *Analyzer {
	return NewAnalyzerWith(fixedScorer{polarity}, fixedScorer{compound})
}

func TestReconcile_CompoundIsPrimary(t *testing.T) {
	cases := []struct {
		polarity, compound float64
		want               string
	}{
		{0, 0.05, model.LabelPositive},
		{0, 0.8, model.LabelPositive},
		{0, -0.05, model.LabelNegative},
		{0, -0.8, model.LabelNegative},
		{0, 0.0, model.LabelNeutral},
		{0, 0.049, model.LabelNeutral},
		{0, -0.049, model.LabelNeutral},
		// compound decides even when polarity disagrees
		{-0.9, 0.5, model.LabelPositive},
		{0.9, -0.5, model.LabelNegative},
	}

	for _, c := range cases {
		got := newFixedAnalyzer(c.polarity, c.compound).Analyze("some text")
		assert.Equal(t, c.want, got.Label)
	}
}

func TestReconcile_PolarityBreaksNeutralTie(t *testing.T) {
	cases := []struct {
		polarity, compound float64
		want               string
	}{
		{0.5, 0.0, model.LabelPositive},
		{-0.5, 0.0, model.LabelNegative},
		{0.5, 0.04, model.LabelPositive},
		{-0.5, -0.04, model.LabelNegative},
		// within the tie-break threshold stays neutral
		{0.1, 0.0, model.LabelNeutral},
		{-0.1, 0.0, model.LabelNeutral},
		{0.3, 0.0, model.LabelNeutral},
		{-0.3, 0.0, model.LabelNeutral},
	}

	for _, c := range cases {
		got := newFixedAnalyzer(c.polarity, c.compound).Analyze("some text")
		assert.Equal(t, c.want, got.Label)
	}
}

func TestUrgencyTiers(t *testing.T) {
	cases := []struct {
		compound float64
		want     string
	}{
		{0.0, model.UrgencyLow},
		{0.19, model.UrgencyLow},
		{-0.19, model.UrgencyLow},
		{0.2, model.UrgencyMedium},
		{-0.2, model.UrgencyMedium},
		{0.59, model.UrgencyMedium},
		{0.6, model.UrgencyHigh},
		{-0.6, model.UrgencyHigh},
		{1.0, model.UrgencyHigh},
	}

	for _, c := range cases {
		got := newFixedAnalyzer(0, c.compound).Analyze("some text")
		assert.Equal(t, c.want, got.Urgency)
	}
}

func TestUrgencyIndependentOfSign(t *testing.T) {
	pos := newFixedAnalyzer(0, 0.7).Analyze("some text")
	neg := newFixedAnalyzer(0, -0.7).Analyze("some text")

	assert.Equal(t, model.UrgencyHigh, pos.Urgency)
	assert.Equal(t, model.UrgencyHigh, neg.Urgency)
	assert.NotEqual(t, pos.Label, neg.Label)
}

func TestAnalyze_EmptyTextIsNeutral(t *testing.T) {
	a := NewAnalyzer()

	for _, text := range []string{"", "   ", "\t\n"} {
		got := a.Analyze(text)
		assert.Equal(t, model.LabelNeutral, got.Label)
		assert.Equal(t, model.UrgencyLow, got.Urgency)
		assert.Equal(t, 0.0, got.Polarity)
		assert.Equal(t, 0.0, got.Compound)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer()
	text := "Bank posts record profit as growth exceeds expectations"

	first := a.Analyze(text)
	second := a.Analyze(text)

	assert.Equal(t, first, second)
}

func TestAnalyze_Totality(t *testing.T) {
	a := NewAnalyzer()

	texts := []string{
		"Bank posts record profit",
		"Regulator fines bank over fraud scandal",
		"The meeting is scheduled for Tuesday",
		"!!!",
		"12345",
	}

	validLabels := map[string]bool{
		model.LabelPositive: true, model.LabelNegative: true, model.LabelNeutral: true,
	}
	validUrgencies := map[string]bool{
		model.UrgencyLow: true, model.UrgencyMedium: true, model.UrgencyHigh: true,
	}

	for _, text := range texts {
		got := a.Analyze(text)
		assert.Equal(t, true, validLabels[got.Label])
		assert.Equal(t, true, validUrgencies[got.Urgency])
		assert.Equal(t, true, got.Polarity >= -1 && got.Polarity <= 1)
		assert.Equal(t, true, got.Compound >= -1 && got.Compound <= 1)
	}
}
