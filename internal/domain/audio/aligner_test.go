package audio

import (
	"testing"

	"speech-detection-webrtc/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlignRepeatsEachDecision(t *testing.T) {
	aligned, err := Align([]bool{true, false, true}, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 0, 0, 1, 1}, aligned)

	assert.Equal(t, []float64{0.55, 0.55, 0, 0, 0.55, 0.55}, Scale(aligned, 0.55))
}

func TestAlignLength(t *testing.T) {
	decisions := []bool{true, true, false, false, true, false, true}
	for reps := 0; reps <= 12; reps++ {
		aligned, err := Align(decisions, reps)
		require.NoError(t, err)
		assert.Len(t, aligned, len(decisions)*reps)
	}

	aligned, err := Align(nil, 11)
	require.NoError(t, err)
	assert.Empty(t, aligned)
}

func TestAlignNegativeRepetitions(t *testing.T) {
	_, err := Align([]bool{true}, -1)
	assert.ErrorIs(t, err, util.ErrInvalidConfiguration)
}
