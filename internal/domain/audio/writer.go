package audio

import (
	"fmt"
	"os"

	data "speech-detection-webrtc/internal/data/audio"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWav 把 16-bit 单声道 PCM 写成 wav 文件
func WriteWav(path string, samples []int16, sampleRate int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file failed: %w", err)
	}
	defer out.Close()

	encoder := wav.NewEncoder(out, sampleRate, data.BytesPerSample*8, data.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: data.Channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: data.BytesPerSample * 8,
		Data:           make([]int, len(samples)),
	}
	for i, sample := range samples {
		buf.Data[i] = int(sample)
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("write wav data failed: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize wav file failed: %w", err)
	}
	return nil
}

// SpeechSamples 按判定结果拼接所有语音帧
func SpeechSamples(frames []data.Frame, decisions []bool) []int16 {
	var out []int16
	for i, frame := range frames {
		if i < len(decisions) && decisions[i] {
			out = append(out, frame.Samples...)
		}
	}
	return out
}
