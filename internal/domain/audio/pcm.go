package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	data "speech-detection-webrtc/internal/data/audio"
	"speech-detection-webrtc/internal/util"
)

const pcm16Scale = 32767

// ScaleToPCM16 把 [-1.0, 1.0] 的归一化采样转成 int16，round(x * 32767)。
// 超出范围属于调用方违约，直接报错而不是静默削波
func ScaleToPCM16(samples []float64) ([]int16, error) {
	out := make([]int16, len(samples))
	for i, sample := range samples {
		if math.IsNaN(sample) || sample > 1.0 || sample < -1.0 {
			return nil, fmt.Errorf("%w: sample %d = %v", util.ErrSampleOutOfRange, i, sample)
		}
		out[i] = int16(math.Round(sample * pcm16Scale))
	}
	return out, nil
}

// PCM16ToBytes 16-bit PCM 小端序
func PCM16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*data.BytesPerSample)
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(out[i*data.BytesPerSample:], uint16(sample))
	}
	return out
}

// BytesToPCM16 PCM16ToBytes 的逆操作，奇数长度的最后一个字节被忽略
func BytesToPCM16(pcm []byte) []int16 {
	out := make([]int16, len(pcm)/data.BytesPerSample)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(pcm[i*data.BytesPerSample:]))
	}
	return out
}

// Clamp 把重采样后轻微越界的值拉回 [-1, 1]
func Clamp(samples []float64) {
	for i, sample := range samples {
		if sample > 1.0 {
			samples[i] = 1.0
		} else if sample < -1.0 {
			samples[i] = -1.0
		}
	}
}
