package audio

import (
	"fmt"
	"math"
	"time"

	"speech-detection-webrtc/internal/util"
)

const (
	Channels = 1
	// BytesPerSample 16-bit PCM
	BytesPerSample = 2
)

// Buffer 一次批处理中加载的全部音频，加载后只读
type Buffer struct {
	Samples    []int16
	SampleRate int
}

// Len 采样点数
func (b Buffer) Len() int {
	return len(b.Samples)
}

// Duration 音频时长
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(b.Samples)) * time.Second / time.Duration(b.SampleRate)
}

// Frame 固定长度的一帧，是分类器的最小输入单位。
// 批处理模式下 Samples 是 Buffer 的视图，不要修改
type Frame struct {
	Index      int
	Samples    []int16
	SampleRate int
}

// Offset 帧起始时间
func (f Frame) Offset() time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(f.Index*len(f.Samples)) * time.Second / time.Duration(f.SampleRate)
}

// Decision 单帧的判定结果，true 表示语音
type Decision = bool

// FrameSize 计算每帧采样数 round(sampleRate * frameDuration)
func FrameSize(sampleRate int, frameDuration time.Duration) (int, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("%w: sample rate must be positive, got %d", util.ErrInvalidConfiguration, sampleRate)
	}
	if frameDuration <= 0 {
		return 0, fmt.Errorf("%w: frame duration must be positive, got %v", util.ErrInvalidConfiguration, frameDuration)
	}
	size := int(math.Round(float64(sampleRate) * frameDuration.Seconds()))
	if size <= 0 {
		return 0, fmt.Errorf("%w: frame size computes to %d (rate=%d, duration=%v)",
			util.ErrInvalidConfiguration, size, sampleRate, frameDuration)
	}
	return size, nil
}

// SecondsToDuration 把命令行的秒数(float)转成 time.Duration
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
