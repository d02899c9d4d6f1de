package format

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/stitchcalc/internal/distribute"
	"github.com/verte-zerg/stitchcalc/internal/model"
)

func TestInstructionScenarios(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "repeat with remainder",
			raw:  "K4, inc, K4, inc, K4, inc, K4, inc, K4",
			want: "(K4, inc) 4 times, K4",
		},
		{
			name: "decrease repeat",
			raw:  "K3, K2tog, K3, K2tog, K3, K2tog, K3",
			want: "(K3, K2tog) 3 times, K3",
		},
		{
			name: "two spacings",
			raw:  "K2, inc, K2, inc, K3, inc, K3, inc, K3, inc, K1",
			want: "(K2, inc) 2 times, (K3, inc) 3 times, K1",
		},
		{
			name: "leading prefix",
			raw:  "K4, inc, K5, inc, K5, inc, K5, inc, K4",
			want: "K4, inc, (K5, inc) 3 times, K4",
		},
		{
			name: "runs at both ends",
			raw:  "K2tog, K2tog, K5, inc, K5, K2tog, K2tog",
			want: "K2tog 2 times, K5, inc, K5, K2tog 2 times",
		},
		{
			name: "single run",
			raw:  "K2tog, K2tog, K2tog, K2tog",
			want: "K2tog 4 times",
		},
		{
			name: "one-sided run",
			raw:  "K2tog, K2tog, K2tog, K1, P1",
			want: "K2tog 3 times, K1, P1",
		},
		{
			name: "four token unit",
			raw:  "K6, inc, K5, inc, K6, inc, K5, inc",
			want: "(K6, inc, K5, inc) 2 times",
		},
		{
			name: "identical run between sections",
			raw:  "K2, inc, K2, inc, K1, K1, K1, SSK, YO, SSK, YO",
			want: "(K2, inc) 2 times, K1 3 times, (SSK, YO) 2 times",
		},
		{
			name: "short simple repeat",
			raw:  "K1, P1, K1, P1, K2",
			want: "(K1, P1) 2 times, K2",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Instruction(tc.raw))
		})
	}
}

func TestInstructionLeavesSimpleInputUnchanged(t *testing.T) {
	for _, raw := range []string{
		"",
		"K4",
		"K4, P4",
		"K1, P2, K3, P4",
		"No changes needed",
		"(K2, inc) × 3",
		"K2,  P2 ,K2tog",
	} {
		assert.Equal(t, raw, Instruction(raw))
	}
}

func TestSectionsFromStart(t *testing.T) {
	tokens := strings.Split("A,B,A,B,C,D,C,D,E,E,E", ",")
	out, ok := sectionsFromStart(tokens)
	require.True(t, ok)
	assert.Equal(t, "(A, B) 2 times, (C, D) 2 times, E 3 times", out)

	_, ok = sectionsFromStart(strings.Split("A,B,A,B,C,D", ","))
	assert.False(t, ok)
}

func TestFormatMiddle(t *testing.T) {
	assert.Equal(t, "", formatMiddle(nil))
	assert.Equal(t, "K 3 times", formatMiddle([]string{"K", "K", "K"}))
	assert.Equal(t, "(K1, P1) 2 times, YO", formatMiddle([]string{"K1", "P1", "K1", "P1", "YO"}))
	assert.Equal(t, "K1, YO", formatMiddle([]string{"K1", "YO"}))
}

func TestFormatLiteral(t *testing.T) {
	assert.Equal(t, "YO, K1 3 times, P1, P1", formatLiteral([]string{"YO", "K1", "K1", "K1", "P1", "P1"}))
	assert.Equal(t, "K1", formatLiteral([]string{"K1"}))
}

func TestRunWrapsCompositeTokens(t *testing.T) {
	assert.Equal(t, "(K2tog 3 times) 2 times", run("K2tog 3 times", 2))
	assert.Equal(t, []string{"K2tog", "K2tog", "K2tog", "K2tog", "K2tog", "K2tog"}, Expand("(K2tog 3 times) 2 times"))
}

func TestOperationsFormatsDistribution(t *testing.T) {
	res, err := distribute.Evenly(20, model.Increase, 4, model.Flat)
	require.NoError(t, err)
	assert.Equal(t, "(K4, inc) 4 times, K4", Operations(res.Operations))

	res, err = distribute.Evenly(20, model.Increase, 0, model.Flat)
	require.NoError(t, err)
	assert.Equal(t, "", Operations(res.Operations))
}

func TestExpand(t *testing.T) {
	assert.Equal(t,
		strings.Split("K4,inc,K4,inc,K4,inc,K4,inc,K4", ","),
		Expand("(K4, inc) 4 times, K4"))
}

func TestInstructionPreservesOperations(t *testing.T) {
	vocab := []string{"K1", "K2", "K3", "P1", "inc", "K2tog", "YO", "SSK"}
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		var tokens []string
		for len(tokens) < 4+rnd.Intn(20) {
			unit := make([]string, 1+rnd.Intn(3))
			for j := range unit {
				unit[j] = vocab[rnd.Intn(len(vocab))]
			}
			reps := 1 + rnd.Intn(5)
			for r := 0; r < reps; r++ {
				tokens = append(tokens, unit...)
			}
		}
		raw := strings.Join(tokens, ", ")
		formatted := Instruction(raw)
		expanded := Expand(formatted)
		require.Equal(t, tokens, expanded, "raw %q formatted %q", raw, formatted)
		require.ElementsMatch(t, tokens, expanded)
	}
}

func TestInstructionIsStable(t *testing.T) {
	raw := "K2, inc, K2, inc, K3, inc, K3, inc, K3, inc, K1"
	first := Instruction(raw)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Instruction(raw))
	}
}
