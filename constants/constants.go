package constants

const (
	VadTypeWebRTCVad = "webrtc_vad"
	VadTypeEnergyVad = "energy_vad"
)

// 批处理模式默认参数
const (
	DefaultAudioPath     = "audio/test.wav"
	DefaultBatchRate     = 16000
	DefaultChunkDuration = 0.03
	DefaultRepetitions   = 11
	DefaultPlotOutput    = "speech_activity.png"
	// DefaultOverlayAmplitude 语音帧在波形图上叠加显示的高度
	DefaultOverlayAmplitude = 0.55
)

// 实时模式默认参数
const (
	DefaultLiveRate      = 8000
	DefaultFrameDuration = 0.03
	DefaultQueueSize     = 64
)

const DefaultVadMode = 3
