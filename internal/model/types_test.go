package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupPrefersExactName(t *testing.T) {
	table := CustomActionTable{"C4F": {Consumes: 4, Produces: 4}, "c4f": {Consumes: 4, Produces: 6}}

	e, ok := table.Lookup("c4f")
	assert.True(t, ok)
	assert.Equal(t, 6, e.Produces)
}

func TestLookupCaseFoldIsDeterministic(t *testing.T) {
	table := CustomActionTable{
		"c4f": {Consumes: 4, Produces: 6},
		"C4F": {Consumes: 4, Produces: 4},
	}
	for i := 0; i < 50; i++ {
		e, ok := table.Lookup("C4f")
		assert.True(t, ok)
		assert.Equal(t, StitchEffect{Consumes: 4, Produces: 4}, e, "C4F sorts before c4f")
	}

	_, ok := table.Lookup("C6B")
	assert.False(t, ok)
}

func TestStitchEffectSaturates(t *testing.T) {
	e := StitchEffect{Consumes: 2, Produces: 1}
	assert.Equal(t, StitchEffect{Consumes: 6, Produces: 3}, e.Scale(3))
	assert.Equal(t, StitchEffect{}, e.Scale(0))
	assert.Equal(t, StitchEffect{Consumes: MaxStitchCount, Produces: MaxStitchCount / 2}, e.Scale(MaxStitchCount/2))
	assert.Equal(t, StitchEffect{Consumes: MaxStitchCount, Produces: MaxStitchCount}, e.Scale(math.MaxInt))

	big := StitchEffect{Consumes: MaxStitchCount, Produces: MaxStitchCount}
	assert.Equal(t, big, big.Add(big))
	assert.Equal(t, StitchEffect{Consumes: 3, Produces: 2}, e.Add(StitchEffect{Consumes: 1, Produces: 1}))
}
