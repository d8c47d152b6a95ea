// Package scorer computes the final ranking score for pattern candidates.
//
// The score starts from the candidate's similarity (internal) or relevance
// (external), is scaled by the historical success rate when history exists,
// and is then raised by individually capped additive boosts for usage
// frequency and domain agreement. Every term is monotonic: more success,
// more usage, or more agreement never lowers the score, all else equal.
package scorer

import (
	"github.com/dshills/patternscout/pkg/types"
)

// Scoring weights and caps. The usage cap prevents runaway dominance by
// over-used patterns; the agreement bonuses are small nudges, not primary
// signals.
const (
	// successFloor scales a fully failing pattern to half its base score
	// rather than zero, so one bad run does not bury a candidate.
	successFloor = 0.5

	usagePerRetrieval = 0.01
	usageCap          = 0.10

	agreementBonus = 0.05
	agreementCap   = 0.10

	domainBoostCap = 0.20
)

// Scorer assigns final scores. The zero value is not usable; use New.
type Scorer struct{}

// New creates a Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Score computes the final ranking score for a pattern against the
// component it is being considered for. component may be nil for free-text
// searches, in which case no agreement bonuses apply.
func (s *Scorer) Score(p *types.Pattern, component *types.ComponentDescriptor) float64 {
	base := p.SimilarityScore
	if p.Source == types.SourceExternal {
		base = p.Relevance
	}

	score := base

	// Success-rate factor: (0.5 + 0.5 * avg). New patterns with no history
	// stay unscaled.
	if rate := p.SuccessRate(); rate >= 0 {
		score *= successFloor + (1-successFloor)*rate
	}

	// Usage-frequency boost, capped.
	usage := usagePerRetrieval * float64(p.UsageCount)
	if usage > usageCap {
		usage = usageCap
	}
	score += usage

	// Domain agreement between component requirements and pattern tags,
	// each individually capped.
	if component != nil {
		agreement := 0.0
		if component.RequiresAuth && p.HasTag("auth") {
			agreement += agreementBonus
		}
		if component.RealTime && p.HasTag("realtime") {
			agreement += agreementBonus
		}
		if component.Interactive && p.HasTag("interaction") {
			agreement += agreementBonus
		}
		if agreement > agreementCap {
			agreement = agreementCap
		}
		score += agreement
	}

	// The enrichment service computes the domain-relevance boost
	// separately; it is applied here so callers can re-weight upstream.
	boost := p.DomainBoost
	if boost > domainBoostCap {
		boost = domainBoostCap
	}
	score += boost

	return score
}

// ScoreAll assigns FinalScore to every pattern in place and returns the
// slice for chaining.
func (s *Scorer) ScoreAll(patterns []*types.Pattern, component *types.ComponentDescriptor) []*types.Pattern {
	for _, p := range patterns {
		p.FinalScore = s.Score(p, component)
	}
	return patterns
}
