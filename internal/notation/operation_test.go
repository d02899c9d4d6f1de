package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/stitchcalc/internal/model"
)

func TestStitchRejectsUnknownNames(t *testing.T) {
	_, ok := Stitch("bobble", 0)
	assert.False(t, ok)

	op, ok := Stitch("ssk", 2)
	require.True(t, ok)
	assert.Equal(t, model.StitchEffect{Consumes: 4, Produces: 2}, op.Total())
}

func TestFlattenKeepsCountsOnLeaves(t *testing.T) {
	k4, _ := Stitch("K", 4)
	inc, _ := Stitch("inc", 0)
	ops := []Operation{Repeat(2, k4, inc), k4}

	flat := Flatten(ops)
	require.Len(t, flat, 5)
	assert.Equal(t, "K4, inc, K4, inc, K4", Render(flat))
	assert.Equal(t, Effect(ops), Effect(flat))
}

func TestRepeatWithZeroTimesHasNoEffect(t *testing.T) {
	k, _ := Stitch("K", 3)
	assert.Equal(t, model.StitchEffect{}, Repeat(0, k).Total())
}

func TestBuiltinsSorted(t *testing.T) {
	names := Builtins()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.True(t, IsBuiltin("YO"))
	assert.False(t, IsBuiltin("C4F"))
}
