package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/stitchcalc/internal/model"
)

func TestParseSplitsCounts(t *testing.T) {
	ops := Parse("K4, inc P12 K2tog", nil)
	require.Len(t, ops, 4)

	assert.Equal(t, KindStitch, ops[0].Kind)
	assert.Equal(t, "K", ops[0].Name)
	assert.Equal(t, 4, ops[0].Count)

	assert.Equal(t, "inc", ops[1].Name)
	assert.Equal(t, 0, ops[1].Count)

	assert.Equal(t, "P", ops[2].Name)
	assert.Equal(t, 12, ops[2].Count)

	assert.Equal(t, "K2tog", ops[3].Name, "full built-in names are not split")
	assert.Equal(t, model.StitchEffect{Consumes: 2, Produces: 1}, ops[3].Effect)
}

func TestParseRepeatGroups(t *testing.T) {
	cases := []struct {
		text  string
		times int
	}{
		{"(K2, inc) × 3", 3},
		{"[K2, inc] x 3", 3},
		{"(K2, inc) x3", 3},
		{"[K2 inc] * 3", 3},
		{"(K2, inc) 3 times", 3},
		{"(K2, inc)", 1},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			ops := Parse(tc.text, nil)
			require.Len(t, ops, 1)
			assert.Equal(t, KindRepeat, ops[0].Kind)
			assert.Equal(t, tc.times, ops[0].Times)
			require.Len(t, ops[0].Body, 2)
			assert.Equal(t, model.StitchEffect{Consumes: 2 * tc.times, Produces: 3 * tc.times}, ops[0].Total())
		})
	}
}

func TestParseSingleOperationMultiplier(t *testing.T) {
	ops := Parse("K2tog 3 times, K4", nil)
	require.Len(t, ops, 2)
	assert.Equal(t, KindRepeat, ops[0].Kind)
	assert.Equal(t, 3, ops[0].Times)
	assert.Equal(t, "K2tog 3 times", ops[0].String())
	assert.Equal(t, "K4", ops[1].String())
}

func TestParseUnclosedGroupIsClosedAtEnd(t *testing.T) {
	ops := Parse("K1, (K2, YO", nil)
	require.Len(t, ops, 2)
	assert.Equal(t, KindRepeat, ops[1].Kind)
	assert.Equal(t, 1, ops[1].Times)
	assert.Equal(t, model.StitchEffect{Consumes: 3, Produces: 4}, Effect(ops))
}

func TestParseNestedGroups(t *testing.T) {
	ops := Parse("[K1, (YO, K2tog) × 2] × 3", nil)
	require.Len(t, ops, 1)
	// One repeat is K1 (1,1) plus 2×(YO, K2tog) (4,4).
	assert.Equal(t, model.StitchEffect{Consumes: 15, Produces: 15}, ops[0].Total())
	assert.Len(t, Flatten(ops), 15)
}

func TestParseCustomActions(t *testing.T) {
	table := model.CustomActionTable{
		"C4F": {Consumes: 4, Produces: 4},
		"Tw":  {Consumes: 2, Produces: 2},
	}
	ops := Parse("C4F, Tw3, bobble", table)
	require.Len(t, ops, 3)

	assert.Equal(t, KindCustom, ops[0].Kind)
	assert.True(t, ops[0].Known)
	assert.Equal(t, "Tw", ops[1].Name)
	assert.Equal(t, 3, ops[1].Count)
	assert.Equal(t, model.StitchEffect{Consumes: 6, Produces: 6}, ops[1].Total())

	assert.False(t, ops[2].Known)
	assert.Equal(t, model.StitchEffect{}, ops[2].Total())
	assert.Equal(t, []string{"bobble"}, Unknown(ops))
}

func TestParseCustomLookupIgnoresCase(t *testing.T) {
	ops := Parse("c4f", model.CustomActionTable{"C4F": {Consumes: 4, Produces: 4}})
	require.Len(t, ops, 1)
	assert.True(t, ops[0].Known)
}

func TestParseIgnoresStrayTokens(t *testing.T) {
	ops := Parse(") K1 × , ]", nil)
	require.Len(t, ops, 1)
	assert.Equal(t, "K1", ops[0].String())
}

func TestRenderRoundTrip(t *testing.T) {
	for _, text := range []string{
		"K4, inc, K4",
		"(K3, K2tog) 3 times, K3",
		"K2tog 4 times",
		"K1, (YO, K2tog) 2 times, K1",
	} {
		assert.Equal(t, text, Render(Parse(text, nil)))
	}
}

func TestOpenGroup(t *testing.T) {
	prefix, body, ok := OpenGroup("K2, (K1, YO) × 2, [K2tog, YO")
	require.True(t, ok)
	assert.Equal(t, "K2, (K1, YO) × 2, ", prefix)
	assert.Equal(t, "K2tog, YO", body)

	_, _, ok = OpenGroup("K2, (K1, YO) × 2")
	assert.False(t, ok)
}
