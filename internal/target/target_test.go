package target

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepeatsToTargetExact(t *testing.T) {
	res := RepeatsToTarget(80, 100, 4)
	assert.Equal(t, RepeatResult{Repeats: 5, IsExact: true, ActualEnding: 100, IsValid: true}, res)
}

func TestRepeatsToTargetWrongDirection(t *testing.T) {
	res := RepeatsToTarget(80, 100, -4)
	assert.False(t, res.IsValid)
	assert.True(t, errors.Is(res.Err, ErrWrongDirection))

	res = RepeatsToTarget(80, 60, 4)
	assert.False(t, res.IsValid)
	assert.True(t, errors.Is(res.Err, ErrWrongDirection))

	res = RepeatsToTarget(80, 80, 4)
	assert.False(t, res.IsValid)
}

func TestRepeatsToTargetInexact(t *testing.T) {
	res := RepeatsToTarget(80, 98, 4)
	assert.True(t, res.IsValid)
	assert.Equal(t, 4, res.Repeats)
	assert.Equal(t, 96, res.ActualEnding)
	assert.False(t, res.IsExact)

	res = RepeatsToTarget(100, 80, -6)
	assert.True(t, res.IsValid)
	assert.Equal(t, 3, res.Repeats)
	assert.Equal(t, 82, res.ActualEnding)
}

func TestRepeatsToTargetInvalidInputs(t *testing.T) {
	res := RepeatsToTarget(80, 100, 0)
	assert.False(t, res.IsValid)
	assert.ErrorIs(t, res.Err, ErrNoChange)

	res = RepeatsToTarget(10, -2, -4)
	assert.False(t, res.IsValid)
	assert.ErrorIs(t, res.Err, ErrNegativeStitches)
}

func TestRepeatsToTargetRoundTrip(t *testing.T) {
	for starting := 0; starting <= 40; starting++ {
		for tgt := 0; tgt <= 40; tgt++ {
			for change := -7; change <= 7; change++ {
				res := RepeatsToTarget(starting, tgt, change)
				if !res.IsValid {
					continue
				}
				require.Equal(t, starting+res.Repeats*change, res.ActualEnding)
				// One more repeat would overshoot.
				next := res.ActualEnding + change
				if change > 0 {
					require.LessOrEqual(t, res.ActualEnding, tgt)
					require.Greater(t, next, tgt)
				} else {
					require.GreaterOrEqual(t, res.ActualEnding, tgt)
					require.Less(t, next, tgt)
				}
			}
		}
	}
}

func TestTargetRows(t *testing.T) {
	// 80 -> 98 at +4 every 4 rows is 4.5 repeats.
	res := TargetRows(4.5, 4, false, 98, 80, 4)
	assert.Equal(t, RowsResult{TotalRows: 17, ActualRepeats: 4, EndingStitches: 98, ReachedOnRow: 17, IsValid: true}, res)

	res = TargetRows(4.5, 4, true, 98, 80, 4)
	assert.Equal(t, RowsResult{TotalRows: 20, ActualRepeats: 5, EndingStitches: 100, ReachedOnRow: 17, IsValid: true}, res)

	res = TargetRows(5, 4, false, 100, 80, 4)
	assert.Equal(t, RowsResult{TotalRows: 20, ActualRepeats: 5, EndingStitches: 100, ReachedOnRow: 20, IsValid: true}, res)
}

func TestTargetRowsRejectsBadInput(t *testing.T) {
	assert.Equal(t, RowsResult{}, TargetRows(-1, 4, false, 100, 80, 4))
	assert.Equal(t, RowsResult{}, TargetRows(3, 0, false, 100, 80, 4))
}

func TestRepeatsNeeded(t *testing.T) {
	assert.InDelta(t, 4.5, RepeatsNeeded(80, 98, 4), 1e-9)
	assert.InDelta(t, 2.0, RepeatsNeeded(20, 12, -4), 1e-9)
	assert.Zero(t, RepeatsNeeded(20, 12, 0))
}

func TestValidTargetStitches(t *testing.T) {
	assert.Equal(t, []int{15, 20, 25}, ValidTargetStitches(10, 5, 3))
	assert.Equal(t, []int{7, 4, 1}, ValidTargetStitches(10, -3, 100))
	assert.Len(t, ValidTargetStitches(10, 2, 0), DefaultMaxRepeats)
	assert.Nil(t, ValidTargetStitches(10, 0, 10))
}
