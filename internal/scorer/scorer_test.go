package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/patternscout/pkg/types"
)

func basePattern() *types.Pattern {
	p := types.NewPattern("button", "tap and verify", "tap_assert")
	p.SimilarityScore = 0.8
	return p
}

func TestScoreNewPatternUnscaled(t *testing.T) {
	s := New()
	p := basePattern()
	// No history, no usage, no component: the similarity passes through.
	assert.InDelta(t, 0.8, s.Score(p, nil), 1e-9)
}

func TestScoreExternalUsesRelevance(t *testing.T) {
	s := New()
	p := basePattern()
	p.Source = types.SourceExternal
	p.SimilarityScore = 0
	p.Relevance = 0.6
	assert.InDelta(t, 0.6, s.Score(p, nil), 1e-9)
}

func TestScoreSuccessFactor(t *testing.T) {
	s := New()

	allPass := basePattern()
	allPass.SuccessHistory = []bool{true, true, true}
	assert.InDelta(t, 0.8, s.Score(allPass, nil), 1e-9, "perfect history keeps full score")

	allFail := basePattern()
	allFail.SuccessHistory = []bool{false, false}
	assert.InDelta(t, 0.4, s.Score(allFail, nil), 1e-9, "failing history halves the score")

	half := basePattern()
	half.SuccessHistory = []bool{true, false}
	assert.InDelta(t, 0.6, s.Score(half, nil), 1e-9)
}

func TestScoreUsageBoostCapped(t *testing.T) {
	s := New()

	light := basePattern()
	light.UsageCount = 3
	assert.InDelta(t, 0.83, s.Score(light, nil), 1e-9)

	heavy := basePattern()
	heavy.UsageCount = 10000
	assert.InDelta(t, 0.9, s.Score(heavy, nil), 1e-9, "usage boost must cap")
}

func TestScoreDomainAgreement(t *testing.T) {
	s := New()
	component := &types.ComponentDescriptor{Type: "feed", RealTime: true, RequiresAuth: true}

	p := basePattern()
	p.Tags = []string{"realtime", "auth"}
	assert.InDelta(t, 0.9, s.Score(p, component), 1e-9)

	// A third agreement would exceed the cap; verify it holds.
	component.Interactive = true
	p.Tags = append(p.Tags, "interaction")
	assert.InDelta(t, 0.9, s.Score(p, component), 1e-9)
}

func TestScoreDomainBoostCapped(t *testing.T) {
	s := New()
	p := basePattern()
	p.DomainBoost = 5.0
	assert.InDelta(t, 0.8+domainBoostCap, s.Score(p, nil), 1e-9)
}

func TestScoreMonotonicity(t *testing.T) {
	s := New()
	component := &types.ComponentDescriptor{Type: "button", RequiresAuth: true}

	t.Run("more success never decreases", func(t *testing.T) {
		worse := basePattern()
		worse.SuccessHistory = []bool{true, false, false}
		better := basePattern()
		better.SuccessHistory = []bool{true, true, false}
		assert.GreaterOrEqual(t, s.Score(better, component), s.Score(worse, component))
	})

	t.Run("more usage never decreases", func(t *testing.T) {
		for usage := int64(0); usage < 50; usage += 5 {
			low := basePattern()
			low.UsageCount = usage
			high := basePattern()
			high.UsageCount = usage + 5
			assert.GreaterOrEqual(t, s.Score(high, component), s.Score(low, component))
		}
	})

	t.Run("more agreement never decreases", func(t *testing.T) {
		without := basePattern()
		with := basePattern()
		with.Tags = []string{"auth"}
		assert.GreaterOrEqual(t, s.Score(with, component), s.Score(without, component))
	})
}

func TestScoreAll(t *testing.T) {
	s := New()
	patterns := []*types.Pattern{basePattern(), basePattern()}
	patterns[1].UsageCount = 5

	s.ScoreAll(patterns, nil)
	assert.InDelta(t, 0.8, patterns[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.85, patterns[1].FinalScore, 1e-9)
}
