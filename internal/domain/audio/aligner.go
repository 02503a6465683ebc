package audio

import (
	"fmt"

	"speech-detection-webrtc/internal/util"
)

// Align 把每帧判定结果连续重复 repetitions 次，语音为 1，静音为 0。
// 输出长度恒为 len(decisions) * repetitions，帧边界处不做平滑
func Align(decisions []bool, repetitions int) ([]float64, error) {
	if repetitions < 0 {
		return nil, fmt.Errorf("%w: repetitions must be non-negative, got %d", util.ErrInvalidConfiguration, repetitions)
	}

	aligned := make([]float64, 0, len(decisions)*repetitions)
	for _, isSpeech := range decisions {
		value := 0.0
		if isSpeech {
			value = 1.0
		}
		for j := 0; j < repetitions; j++ {
			aligned = append(aligned, value)
		}
	}
	return aligned, nil
}

// Scale 返回按显示幅度缩放后的副本，如 0.55
func Scale(aligned []float64, amplitude float64) []float64 {
	out := make([]float64, len(aligned))
	for i, v := range aligned {
		out[i] = v * amplitude
	}
	return out
}
