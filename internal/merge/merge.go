// Package merge combines internal-index and external pattern candidates
// into one bounded, deterministically ranked list.
//
// Internal candidates are never dropped by deduplication; external
// candidates are admitted only when no already-included item is a
// near-duplicate by text similarity. The similarity function is pluggable
// so the overlap heuristic can be swapped without touching the merge
// logic. Output order depends only on the input lists — no map iteration
// is involved — so repeated runs over the same inputs are identical.
package merge

import (
	"sort"
	"strings"

	"github.com/dshills/patternscout/pkg/types"
)

// Defaults for the tunables the original sources left unspecified. Both
// are deliberate configuration, not hard-coded guesses: callers may
// override them through Config.
const (
	// DefaultDupThreshold is the text-overlap ratio at or above which an
	// external candidate is judged a near-duplicate.
	DefaultDupThreshold = 0.8
	// DefaultHighQuality is the relevance above which an external
	// candidate earns the quality bonus.
	DefaultHighQuality = 0.8
	// DefaultQualityBonus is added to a high-quality external candidate's
	// final score before insertion.
	DefaultQualityBonus = 0.05
)

// TextSimilarity judges how alike two pattern texts are, in [0, 1].
type TextSimilarity interface {
	Similarity(a, b string) float64
}

// TokenOverlap is the default TextSimilarity: the case-insensitive overlap
// coefficient between the token sets of the two texts.
type TokenOverlap struct{}

// Similarity returns |A ∩ B| / min(|A|, |B|) over lowercase token sets.
// Two empty texts are identical; one empty text matches nothing.
func (TokenOverlap) Similarity(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	smaller, larger := ta, tb
	if len(tb) < len(ta) {
		smaller, larger = tb, ta
	}
	common := 0
	for tok := range smaller {
		if _, ok := larger[tok]; ok {
			common++
		}
	}
	return float64(common) / float64(len(smaller))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = struct{}{}
	}
	return set
}

// Config configures an Engine.
type Config struct {
	DupThreshold float64
	HighQuality  float64
	QualityBonus float64
	Similarity   TextSimilarity
}

// Engine merges candidate lists.
type Engine struct {
	cfg Config
}

// New creates an Engine, filling zero Config fields with the defaults.
func New(cfg Config) *Engine {
	if cfg.DupThreshold <= 0 {
		cfg.DupThreshold = DefaultDupThreshold
	}
	if cfg.HighQuality <= 0 {
		cfg.HighQuality = DefaultHighQuality
	}
	if cfg.QualityBonus <= 0 {
		cfg.QualityBonus = DefaultQualityBonus
	}
	if cfg.Similarity == nil {
		cfg.Similarity = TokenOverlap{}
	}
	return &Engine{cfg: cfg}
}

// Merge combines the lists. Every internal candidate is retained; each
// external candidate is admitted unless a near-duplicate is already
// included. The result is sorted descending by final score (stable on
// ties) and truncated to maxSize.
func (e *Engine) Merge(internal, external []*types.Pattern, maxSize int) []*types.Pattern {
	combined := make([]*types.Pattern, 0, len(internal)+len(external))
	combined = append(combined, internal...)

	for _, candidate := range external {
		if e.isDuplicate(candidate, combined) {
			continue
		}
		if candidate.Relevance > e.cfg.HighQuality {
			candidate.FinalScore += e.cfg.QualityBonus
		}
		combined = append(combined, candidate)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].FinalScore > combined[j].FinalScore
	})

	if maxSize > 0 && len(combined) > maxSize {
		combined = combined[:maxSize]
	}
	return combined
}

// isDuplicate reports whether any included item is a near-duplicate of the
// candidate by title/description overlap.
func (e *Engine) isDuplicate(candidate *types.Pattern, included []*types.Pattern) bool {
	for _, existing := range included {
		if e.cfg.Similarity.Similarity(mergeText(candidate), mergeText(existing)) >= e.cfg.DupThreshold {
			return true
		}
	}
	return false
}

// mergeText is the text compared during deduplication.
func mergeText(p *types.Pattern) string {
	return p.Description
}
