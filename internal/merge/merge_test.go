package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/patternscout/pkg/types"
)

func pattern(desc string, score float64, source types.Source) *types.Pattern {
	p := types.NewPattern("button", desc, "strategy")
	p.Source = source
	p.FinalScore = score
	return p
}

func TestTokenOverlapSimilarity(t *testing.T) {
	sim := TokenOverlap{}

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "tap the button", b: "tap the button", want: 1},
		{name: "case insensitive", a: "Tap The Button", b: "tap the button", want: 1},
		{name: "disjoint", a: "tap button", b: "scroll list", want: 0},
		{name: "partial overlap", a: "tap button fast", b: "tap button", want: 1},
		{name: "half overlap", a: "tap button", b: "tap list", want: 0.5},
		{name: "both empty", a: "", b: "", want: 1},
		{name: "one empty", a: "", b: "tap", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, sim.Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMergeKeepsAllInternal(t *testing.T) {
	e := New(Config{})
	internal := []*types.Pattern{
		pattern("tap and verify state", 0.9, types.SourceInternal),
		pattern("tap and verify state", 0.8, types.SourceInternal), // internal dup stays
	}
	external := []*types.Pattern{
		pattern("completely different approach", 0.7, types.SourceExternal),
	}

	out := e.Merge(internal, external, 10)
	require.Len(t, out, 3)

	internalCount := 0
	for _, p := range out {
		if p.Source == types.SourceInternal {
			internalCount++
		}
	}
	assert.Equal(t, 2, internalCount, "dedup must never drop internal candidates")
}

func TestMergeSuppressesNearDuplicates(t *testing.T) {
	e := New(Config{})
	internal := []*types.Pattern{
		pattern("Tap And Verify Button State", 0.9, types.SourceInternal),
	}
	external := []*types.Pattern{
		pattern("tap and verify button state", 0.85, types.SourceExternal), // identical title, different case
		pattern("drag slider and assert position", 0.7, types.SourceExternal),
	}

	out := e.Merge(internal, external, 10)
	require.Len(t, out, 2)
	assert.Equal(t, types.SourceInternal, out[0].Source)
}

func TestMergeIdenticalExternalTitles(t *testing.T) {
	e := New(Config{})
	external := []*types.Pattern{
		pattern("swipe to refresh", 0.8, types.SourceExternal),
		pattern("Swipe To Refresh", 0.7, types.SourceExternal),
	}

	out := e.Merge(nil, external, 10)
	assert.Len(t, out, 1, "at most one of two identically titled candidates survives")
}

func TestMergeSortedAndBounded(t *testing.T) {
	e := New(Config{})
	internal := []*types.Pattern{
		pattern("alpha strategy", 0.5, types.SourceInternal),
		pattern("beta strategy variant", 0.9, types.SourceInternal),
	}
	external := []*types.Pattern{
		pattern("gamma external method", 0.7, types.SourceExternal),
		pattern("delta external method", 0.6, types.SourceExternal),
	}

	out := e.Merge(internal, external, 3)
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].FinalScore, out[i].FinalScore)
	}
}

func TestMergeHighQualityBoost(t *testing.T) {
	e := New(Config{})
	ext := pattern("niche high quality source", 0.6, types.SourceExternal)
	ext.Relevance = 0.95

	out := e.Merge(nil, []*types.Pattern{ext}, 10)
	require.Len(t, out, 1)
	assert.InDelta(t, 0.6+DefaultQualityBonus, out[0].FinalScore, 1e-9)
}

func TestMergeDeterminism(t *testing.T) {
	e := New(Config{})
	build := func() ([]*types.Pattern, []*types.Pattern) {
		internal := []*types.Pattern{
			pattern("same score one", 0.8, types.SourceInternal),
			pattern("same score two", 0.8, types.SourceInternal),
		}
		external := []*types.Pattern{
			pattern("same score three", 0.8, types.SourceExternal),
			pattern("same score four", 0.8, types.SourceExternal),
		}
		return internal, external
	}

	i1, e1 := build()
	first := e.Merge(i1, e1, 10)
	for range 10 {
		in, ex := build()
		out := e.Merge(in, ex, 10)
		require.Len(t, out, len(first))
		for i := range out {
			assert.Equal(t, first[i].Description, out[i].Description,
				"equal scores must keep input order on every run")
		}
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	e := New(Config{})
	assert.Empty(t, e.Merge(nil, nil, 5))
}
