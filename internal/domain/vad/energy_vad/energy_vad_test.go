package energy_vad

import (
	"encoding/binary"
	"testing"

	"speech-detection-webrtc/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantFrame(n int, value int16) []byte {
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(value))
	}
	return out
}

func TestEnergyVADThresholdByMode(t *testing.T) {
	// RMS = 1000/32768 ≈ 0.0305
	frame := constantFrame(240, 1000)

	for mode, want := range []bool{true, true, true, false} {
		vad, err := NewEnergyVAD(mode)
		require.NoError(t, err)

		isSpeech, err := vad.IsSpeech(frame, 8000)
		require.NoError(t, err)
		assert.Equal(t, want, isSpeech, "mode=%d", mode)
		require.NoError(t, vad.Close())
	}
}

func TestEnergyVADSilence(t *testing.T) {
	vad, err := NewEnergyVAD(0)
	require.NoError(t, err)
	defer vad.Close()

	isSpeech, err := vad.IsSpeech(make([]byte, 480), 8000)
	require.NoError(t, err)
	assert.False(t, isSpeech)
}

func TestEnergyVADInvalid(t *testing.T) {
	_, err := NewEnergyVAD(4)
	assert.ErrorIs(t, err, util.ErrInvalidConfiguration)

	vad, err := NewEnergyVAD(2)
	require.NoError(t, err)

	_, err = vad.IsSpeech(constantFrame(10, 1), 0)
	assert.ErrorIs(t, err, util.ErrInvalidConfiguration)

	_, err = vad.IsSpeech([]byte{1, 2, 3}, 8000)
	assert.Error(t, err)

	require.NoError(t, vad.Close())
	require.NoError(t, vad.Close())
	_, err = vad.IsSpeech(constantFrame(10, 1), 8000)
	assert.Error(t, err)
}

func TestRMS(t *testing.T) {
	assert.InDelta(t, 0.5, RMS(constantFrame(16, 16384)), 1e-9)
	assert.InDelta(t, 0.5, RMS(constantFrame(16, -16384)), 1e-9)
	assert.Equal(t, 0.0, RMS(nil))
}
