package audio

import (
	"iter"
	"time"

	data "speech-detection-webrtc/internal/data/audio"
)

// Chunker 把整段音频切成首尾相接、等长的帧。
// 末尾不足一帧的采样直接丢弃：WebRTC VAD 只接受固定帧长
type Chunker struct {
	sampleRate    int
	frameDuration time.Duration
	frameSize     int
}

// NewChunker 创建分帧器，frameSize = round(sampleRate * frameDuration)
func NewChunker(sampleRate int, frameDuration time.Duration) (*Chunker, error) {
	frameSize, err := data.FrameSize(sampleRate, frameDuration)
	if err != nil {
		return nil, err
	}
	return &Chunker{
		sampleRate:    sampleRate,
		frameDuration: frameDuration,
		frameSize:     frameSize,
	}, nil
}

func (c *Chunker) FrameSize() int {
	return c.frameSize
}

func (c *Chunker) SampleRate() int {
	return c.sampleRate
}

func (c *Chunker) FrameDuration() time.Duration {
	return c.frameDuration
}

// Count 长度为 n 的缓冲区能切出的完整帧数
func (c *Chunker) Count(n int) int {
	if n <= 0 {
		return 0
	}
	return n / c.frameSize
}

// Remainder 被丢弃的尾部采样数
func (c *Chunker) Remainder(n int) int {
	if n <= 0 {
		return 0
	}
	return n % c.frameSize
}

// Frames 按顺序惰性地产出帧，帧内采样是 buf 的视图
func (c *Chunker) Frames(buf data.Buffer) iter.Seq[data.Frame] {
	return func(yield func(data.Frame) bool) {
		count := c.Count(len(buf.Samples))
		for i := 0; i < count; i++ {
			start := i * c.frameSize
			frame := data.Frame{
				Index:      i,
				Samples:    buf.Samples[start : start+c.frameSize : start+c.frameSize],
				SampleRate: c.sampleRate,
			}
			if !yield(frame) {
				return
			}
		}
	}
}

// StreamChunker 实时模式下的分帧器：持续累积输入，够一帧就吐出一帧，
// 剩余部分留到下次。不会产出短帧。
// 不是协程安全的，只能由一个会话独占使用
type StreamChunker struct {
	sampleRate int
	frameSize  int
	pending    []int16
	next       int
}

// NewStreamChunker 创建实时分帧器
func NewStreamChunker(sampleRate int, frameDuration time.Duration) (*StreamChunker, error) {
	frameSize, err := data.FrameSize(sampleRate, frameDuration)
	if err != nil {
		return nil, err
	}
	return &StreamChunker{
		sampleRate: sampleRate,
		frameSize:  frameSize,
		pending:    make([]int16, 0, frameSize*2),
	}, nil
}

func (s *StreamChunker) FrameSize() int {
	return s.frameSize
}

// Push 追加采样并返回本次凑齐的所有帧。返回的帧持有独立的内存
func (s *StreamChunker) Push(samples []int16) []data.Frame {
	s.pending = append(s.pending, samples...)
	if len(s.pending) < s.frameSize {
		return nil
	}

	count := len(s.pending) / s.frameSize
	frames := make([]data.Frame, 0, count)
	for i := 0; i < count; i++ {
		frameData := make([]int16, s.frameSize)
		copy(frameData, s.pending[i*s.frameSize:(i+1)*s.frameSize])
		frames = append(frames, data.Frame{
			Index:      s.next,
			Samples:    frameData,
			SampleRate: s.sampleRate,
		})
		s.next++
	}

	// 剩余不足一帧的部分移到头部
	rest := copy(s.pending, s.pending[count*s.frameSize:])
	s.pending = s.pending[:rest]
	return frames
}

// Pending 尚未凑满一帧的采样数
func (s *StreamChunker) Pending() int {
	return len(s.pending)
}

// Reset 丢弃累积的采样，帧序号归零
func (s *StreamChunker) Reset() {
	s.pending = s.pending[:0]
	s.next = 0
}
