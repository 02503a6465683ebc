package energy_vad

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"speech-detection-webrtc/internal/domain/audio"
	"speech-detection-webrtc/internal/domain/vad/inter"
	"speech-detection-webrtc/internal/util"
)

var _ inter.VAD = (*EnergyVAD)(nil)

var errClosed = errors.New("energy vad is closed")

// modeThresholds 各模式下的归一化 RMS 阈值，模式越高越难判为语音
var modeThresholds = [4]float64{0.005, 0.01, 0.02, 0.04}

// EnergyVAD 纯 Go 的 RMS 能量检测器，帧与帧之间不保留状态
type EnergyVAD struct {
	mu        sync.RWMutex
	mode      int
	threshold float64
	closed    bool
}

// NewEnergyVAD 创建能量检测器
func NewEnergyVAD(mode int) (*EnergyVAD, error) {
	v := &EnergyVAD{}
	if err := v.SetMode(mode); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *EnergyVAD) SetMode(mode int) error {
	if mode < 0 || mode > 3 {
		return fmt.Errorf("%w: invalid VAD mode %d, must be 0-3", util.ErrInvalidConfiguration, mode)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return errClosed
	}
	v.mode = mode
	v.threshold = modeThresholds[mode]
	return nil
}

func (v *EnergyVAD) IsSpeech(frame []byte, sampleRate int) (bool, error) {
	if sampleRate <= 0 {
		return false, fmt.Errorf("%w: sample rate must be positive, got %d", util.ErrInvalidConfiguration, sampleRate)
	}
	if len(frame) == 0 || len(frame)%2 != 0 {
		return false, fmt.Errorf("invalid PCM frame length %d", len(frame))
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return false, errClosed
	}
	return RMS(frame) >= v.threshold, nil
}

func (v *EnergyVAD) Close() error {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
	return nil
}

// Threshold 当前模式下的 RMS 阈值
func (v *EnergyVAD) Threshold() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.threshold
}

// RMS 16-bit 小端 PCM 的归一化均方根能量
func RMS(frame []byte) float64 {
	samples := audio.BytesToPCM16(frame)
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range samples {
		s := float64(sample) / 32768.0
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}
