package vad

import (
	"fmt"

	"speech-detection-webrtc/constants"
	"speech-detection-webrtc/internal/domain/vad/energy_vad"
	"speech-detection-webrtc/internal/domain/vad/inter"
	"speech-detection-webrtc/internal/domain/vad/webrtc_vad"
	"speech-detection-webrtc/internal/util"
	log "speech-detection-webrtc/logger"
)

// NewVAD 按 provider 创建检测器，调用方负责 Close
func NewVAD(provider string, mode int) (inter.VAD, error) {
	switch provider {
	case constants.VadTypeWebRTCVad, "":
		detector, err := webrtc_vad.NewWebRTCVAD(mode)
		if err != nil {
			return nil, err
		}
		return detector, nil
	case constants.VadTypeEnergyVad:
		detector, err := energy_vad.NewEnergyVAD(mode)
		if err != nil {
			return nil, err
		}
		log.Debugf("energy vad mode: %d, rms threshold: %.3f", mode, detector.Threshold())
		return detector, nil
	default:
		return nil, fmt.Errorf("%w: invalid vad provider %q", util.ErrInvalidConfiguration, provider)
	}
}

// ValidateFrame 检查 provider 是否接受该采样率/帧长组合
func ValidateFrame(provider string, sampleRate int, frameSize int) error {
	switch provider {
	case constants.VadTypeWebRTCVad, "":
		return webrtc_vad.ValidateFrame(sampleRate, frameSize)
	case constants.VadTypeEnergyVad:
		return nil
	default:
		return fmt.Errorf("%w: invalid vad provider %q", util.ErrInvalidConfiguration, provider)
	}
}
