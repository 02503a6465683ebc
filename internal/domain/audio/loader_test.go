package audio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	data "speech-detection-webrtc/internal/data/audio"
	"speech-detection-webrtc/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sineWave 生成 16-bit 正弦波
func sineWave(sampleRate int, frequency float64, seconds float64, amplitude float64) []int16 {
	n := int(float64(sampleRate) * seconds)
	out := make([]int16, n)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = int16(amplitude * 32767 * math.Sin(2*math.Pi*frequency*t))
	}
	return out
}

func TestLoadWavSameRate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := sineWave(16000, 440, 0.5, 0.5)
	require.NoError(t, WriteWav(path, samples, 16000))

	waveform, err := LoadFile(path, 16000)
	require.NoError(t, err)
	assert.Equal(t, 16000, waveform.SampleRate)
	require.Len(t, waveform.Samples, len(samples))

	buf, err := waveform.ToBuffer()
	require.NoError(t, err)
	for i := range samples {
		assert.InDelta(t, float64(samples[i]), float64(buf.Samples[i]), 1.0)
	}
}

func TestLoadWavResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, WriteWav(path, sineWave(16000, 300, 1.0, 0.3), 16000))

	waveform, err := LoadFile(path, 8000)
	require.NoError(t, err)
	assert.Equal(t, 8000, waveform.SampleRate)
	assert.InDelta(t, 8000, len(waveform.Samples), 64)
	for _, v := range waveform.Samples {
		assert.LessOrEqual(t, math.Abs(v), 1.0)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.wav"), 16000)
	assert.ErrorIs(t, err, util.ErrAudioLoad)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	_, err = LoadFile(txt, 16000)
	assert.ErrorIs(t, err, util.ErrAudioLoad)

	garbage := filepath.Join(dir, "garbage.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not riff"), 0o644))
	_, err = LoadFile(garbage, 16000)
	assert.ErrorIs(t, err, util.ErrAudioLoad)

	_, err = LoadFile(garbage, 0)
	assert.ErrorIs(t, err, util.ErrInvalidConfiguration)
}

func TestSpeechSamples(t *testing.T) {
	frames := []data.Frame{
		{Index: 0, Samples: []int16{1, 1}},
		{Index: 1, Samples: []int16{2, 2}},
		{Index: 2, Samples: []int16{3, 3}},
	}
	assert.Equal(t, []int16{1, 1, 3, 3}, SpeechSamples(frames, []bool{true, false, true}))
	assert.Empty(t, SpeechSamples(frames, []bool{false, false, false}))
}
