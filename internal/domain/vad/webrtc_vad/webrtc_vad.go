package webrtc_vad

import (
	"errors"
	"fmt"
	"sync"

	"speech-detection-webrtc/internal/domain/vad/inter"
	"speech-detection-webrtc/internal/util"

	"github.com/hackers365/go-webrtcvad"
)

var _ inter.VAD = (*WebRTCVAD)(nil)

var errClosed = errors.New("webrtc vad is closed")

// 支持的帧时长 (ms)，WebRTC VAD 只接受 10ms, 20ms, 30ms
var validFrameDurations = []int{10, 20, 30}

// 支持的采样率
var validSampleRates = []int{8000, 16000, 32000, 48000}

// WebRTCVAD 对 go-webrtcvad 的封装
type WebRTCVAD struct {
	webrtcVad *webrtcvad.VAD
	mode      int
	closed    bool
	mu        sync.Mutex
}

// NewWebRTCVAD 创建 WebRTC VAD 实例并设置模式
func NewWebRTCVAD(mode int) (*WebRTCVAD, error) {
	if err := validateMode(mode); err != nil {
		return nil, err
	}

	instance, err := webrtcvad.New()
	if err != nil || instance == nil {
		return nil, fmt.Errorf("failed to create WebRTC VAD instance: %v", err)
	}

	if err := instance.SetMode(mode); err != nil {
		webrtcvad.Free(instance)
		return nil, fmt.Errorf("failed to set WebRTC VAD mode: %w", err)
	}

	return &WebRTCVAD{
		webrtcVad: instance,
		mode:      mode,
	}, nil
}

// SetMode 设置 VAD 敏感度模式
func (w *WebRTCVAD) SetMode(mode int) error {
	if err := validateMode(mode); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errClosed
	}
	if err := w.webrtcVad.SetMode(mode); err != nil {
		return fmt.Errorf("failed to set WebRTC VAD mode: %w", err)
	}
	w.mode = mode
	return nil
}

// IsSpeech 检测一帧 PCM 是否包含语音
func (w *WebRTCVAD) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	if len(frame)%2 != 0 {
		return false, fmt.Errorf("odd PCM byte count %d", len(frame))
	}
	if err := ValidateFrame(sampleRate, len(frame)/2); err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return false, errClosed
	}
	isActive, err := w.webrtcVad.Process(sampleRate, frame)
	if err != nil {
		return false, fmt.Errorf("WebRTC VAD process error: %w", err)
	}
	return isActive, nil
}

// Close 释放底层 C 资源
func (w *WebRTCVAD) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.closed && w.webrtcVad != nil {
		webrtcvad.Free(w.webrtcVad)
		w.webrtcVad = nil
	}
	w.closed = true
	return nil
}

// GetMode 获取当前 VAD 模式
func (w *WebRTCVAD) GetMode() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// ValidateFrame 检查采样率与帧长(采样点数)组合是否被 WebRTC VAD 支持
func ValidateFrame(sampleRate int, frameSize int) error {
	if !isValidSampleRate(sampleRate) {
		return fmt.Errorf("%w: unsupported sample rate %d, supported rates: 8000, 16000, 32000, 48000",
			util.ErrInvalidConfiguration, sampleRate)
	}
	for _, ms := range validFrameDurations {
		if sampleRate/1000*ms == frameSize {
			return nil
		}
	}
	return fmt.Errorf("%w: frame of %d samples at %d Hz is not 10, 20 or 30 ms",
		util.ErrInvalidConfiguration, frameSize, sampleRate)
}

func isValidSampleRate(sampleRate int) bool {
	for _, rate := range validSampleRates {
		if rate == sampleRate {
			return true
		}
	}
	return false
}

func validateMode(mode int) error {
	if mode < 0 || mode > 3 {
		return fmt.Errorf("%w: invalid VAD mode %d, must be 0-3", util.ErrInvalidConfiguration, mode)
	}
	return nil
}
