// Package vad 把第三方帧级语音检测器包装成统一的调用约定：
// 一帧 16-bit PCM + 采样率 -> bool。
//
// Classifier 归属于单个批处理任务或实时会话，不在会话之间共享。
// 底层检测器是否在帧之间保留自适应状态由检测器自身决定（WebRTC VAD 会），
// 这里不做任何假设，只保证帧按顺序送入。
package vad

import (
	"fmt"

	data "speech-detection-webrtc/internal/data/audio"
	"speech-detection-webrtc/internal/domain/audio"
	"speech-detection-webrtc/internal/domain/vad/inter"
	"speech-detection-webrtc/internal/util"
)

// Stats 分类统计
type Stats struct {
	TotalFrames  int
	SpeechFrames int
}

// SpeechRatio 语音帧占比 [0, 1]
func (s Stats) SpeechRatio() float64 {
	if s.TotalFrames == 0 {
		return 0
	}
	return float64(s.SpeechFrames) / float64(s.TotalFrames)
}

// Classifier 持有检测器和敏感度模式
type Classifier struct {
	detector inter.VAD
	mode     int
	stats    Stats
}

// NewClassifier 包装检测器并下发模式
func NewClassifier(detector inter.VAD, mode int) (*Classifier, error) {
	if detector == nil {
		return nil, fmt.Errorf("%w: detector is nil", util.ErrInvalidConfiguration)
	}
	if mode < 0 || mode > 3 {
		return nil, fmt.Errorf("%w: invalid VAD mode %d, must be one of 0,1,2,3", util.ErrInvalidConfiguration, mode)
	}
	if err := detector.SetMode(mode); err != nil {
		return nil, err
	}
	return &Classifier{detector: detector, mode: mode}, nil
}

// Classify 判定一帧是否为语音
func (c *Classifier) Classify(frame data.Frame) (bool, error) {
	isSpeech, err := c.detector.IsSpeech(audio.PCM16ToBytes(frame.Samples), frame.SampleRate)
	if err != nil {
		return false, fmt.Errorf("classify frame %d: %w", frame.Index, err)
	}

	c.stats.TotalFrames++
	if isSpeech {
		c.stats.SpeechFrames++
	}
	return isSpeech, nil
}

func (c *Classifier) Mode() int {
	return c.mode
}

func (c *Classifier) Stats() Stats {
	return c.stats
}

// Close 关闭底层检测器
func (c *Classifier) Close() error {
	return c.detector.Close()
}
