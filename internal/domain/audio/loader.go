package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	data "speech-detection-webrtc/internal/data/audio"
	"speech-detection-webrtc/internal/util"

	"github.com/go-audio/wav"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
)

// resampleQuality beep 重采样质量，取值 1~64
const resampleQuality = 4

// Waveform 解码后的单声道归一化波形，取值 [-1, 1]
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// ToBuffer 转成 16-bit PCM 缓冲区供分帧使用
func (w *Waveform) ToBuffer() (data.Buffer, error) {
	samples, err := ScaleToPCM16(w.Samples)
	if err != nil {
		return data.Buffer{}, err
	}
	return data.Buffer{Samples: samples, SampleRate: w.SampleRate}, nil
}

// LoadFile 读取 wav/mp3 文件，混成单声道并重采样到 sampleRate
func LoadFile(path string, sampleRate int) (*Waveform, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", util.ErrInvalidConfiguration, sampleRate)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", util.ErrAudioLoad, err)
	}
	defer file.Close()

	var mono []float64
	var srcRate int
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		mono, srcRate, err = decodeWav(file)
	case ".mp3":
		mono, srcRate, err = decodeMp3(file)
	default:
		err = fmt.Errorf("unsupported audio format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", util.ErrAudioLoad, path, err)
	}

	samples, err := resample(mono, srcRate, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", util.ErrAudioLoad, path, err)
	}
	Clamp(samples)

	return &Waveform{Samples: samples, SampleRate: sampleRate}, nil
}

// decodeWav 只支持整数 PCM，多声道取平均
func decodeWav(r io.ReadSeeker) ([]float64, int, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid wav file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("read wav data failed: %w", err)
	}
	if decoder.WavAudioFormat != 1 {
		return nil, 0, fmt.Errorf("unsupported wav encoding %d, only integer PCM is supported", decoder.WavAudioFormat)
	}

	channels := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	if channels <= 0 {
		return nil, 0, fmt.Errorf("invalid channel count %d", channels)
	}
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return nil, 0, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}

	fullScale := float64(int64(1) << (bitDepth - 1))
	offset := 0.0
	if bitDepth == 8 {
		// 8-bit wav 是无符号的
		offset = fullScale
	}

	frames := len(buf.Data) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += (float64(buf.Data[i*channels+ch]) - offset) / fullScale
		}
		mono[i] = sum / float64(channels)
	}
	return mono, int(decoder.SampleRate), nil
}

func decodeMp3(rc io.ReadCloser) ([]float64, int, error) {
	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		return nil, 0, fmt.Errorf("decode mp3 failed: %w", err)
	}
	defer streamer.Close()

	mono, err := drain(streamer)
	if err != nil {
		return nil, 0, err
	}
	return mono, int(format.SampleRate), nil
}

// resample 使用 beep 的重采样器，采样率一致时原样返回副本
func resample(mono []float64, from, to int) ([]float64, error) {
	if from <= 0 {
		return nil, fmt.Errorf("invalid source sample rate %d", from)
	}
	if from == to {
		out := make([]float64, len(mono))
		copy(out, mono)
		return out, nil
	}
	if len(mono) == 0 {
		return []float64{}, nil
	}

	src := &monoStreamer{samples: mono}
	return drain(beep.Resample(resampleQuality, beep.SampleRate(from), beep.SampleRate(to), src))
}

// drain 读完整个 streamer，左右声道取平均
func drain(s beep.Streamer) ([]float64, error) {
	out := make([]float64, 0, 4096)
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("stream audio failed: %w", err)
	}
	return out, nil
}

// monoStreamer 把单声道切片包装成 beep.Streamer
type monoStreamer struct {
	samples []float64
	pos     int
}

func (m *monoStreamer) Stream(samples [][2]float64) (int, bool) {
	if m.pos >= len(m.samples) {
		return 0, false
	}
	n := 0
	for n < len(samples) && m.pos < len(m.samples) {
		samples[n][0] = m.samples[m.pos]
		samples[n][1] = m.samples[m.pos]
		n++
		m.pos++
	}
	return n, true
}

func (m *monoStreamer) Err() error {
	return nil
}
