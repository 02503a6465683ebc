package audio

import (
	"math"
	"testing"

	"speech-detection-webrtc/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleToPCM16(t *testing.T) {
	pcm, err := ScaleToPCM16([]float64{-1.0, -0.5, 0.0, 0.5, 1.0, 0.00002})
	require.NoError(t, err)
	assert.Equal(t, []int16{-32767, -16384, 0, 16384, 32767, 1}, pcm)
}

func TestScaleToPCM16OutOfRange(t *testing.T) {
	for _, bad := range []float64{1.5, -1.0001, math.NaN()} {
		_, err := ScaleToPCM16([]float64{0, bad})
		assert.ErrorIs(t, err, util.ErrSampleOutOfRange, "value %v", bad)
	}
}

func TestPCM16Bytes(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 256}
	pcm := PCM16ToBytes(samples)
	require.Len(t, pcm, len(samples)*2)
	// 小端序
	assert.Equal(t, []byte{0x01, 0x00}, pcm[2:4])
	assert.Equal(t, []byte{0xff, 0xff}, pcm[4:6])
	assert.Equal(t, []byte{0x00, 0x01}, pcm[10:12])

	assert.Equal(t, samples, BytesToPCM16(pcm))
}

func TestClamp(t *testing.T) {
	samples := []float64{1.02, -1.3, 0.4}
	Clamp(samples)
	assert.Equal(t, []float64{1.0, -1.0, 0.4}, samples)
}
