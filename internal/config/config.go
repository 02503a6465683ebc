package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"speech-detection-webrtc/constants"
	data "speech-detection-webrtc/internal/data/audio"
	"speech-detection-webrtc/internal/domain/vad"
	"speech-detection-webrtc/internal/util"

	"github.com/spf13/viper"
)

// LogConfig 日志配置，对应配置文件中的 log 段
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Stdout bool   `mapstructure:"stdout"`
	Path   string `mapstructure:"path"`
	File   string `mapstructure:"file"`
	MaxAge int    `mapstructure:"max_age"`
}

// BatchConfig 离线文件检测 + 绘图
type BatchConfig struct {
	AudioPath        string    `mapstructure:"audio_path"`
	SampleRate       int       `mapstructure:"sample_rate"`
	VadMode          int       `mapstructure:"vad_mode"`
	VadProvider      string    `mapstructure:"vad_provider"`
	ChunkDuration    float64   `mapstructure:"chunk_duration"`
	Repetitions      int       `mapstructure:"repetitions"`
	OverlayAmplitude float64   `mapstructure:"overlay_amplitude"`
	PlotOutput       string    `mapstructure:"plot_output"`
	SpeechOutput     string    `mapstructure:"speech_output"`
	Log              LogConfig `mapstructure:"log"`
}

// LiveConfig 麦克风实时检测
type LiveConfig struct {
	SampleRate    int       `mapstructure:"sample_rate"`
	VadMode       int       `mapstructure:"vad_mode"`
	VadProvider   string    `mapstructure:"vad_provider"`
	FrameDuration float64   `mapstructure:"frame_duration"`
	QueueSize     int       `mapstructure:"queue_size"`
	Log           LogConfig `mapstructure:"log"`
}

func setLogDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.stdout", true)
	v.SetDefault("log.path", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_age", 3)
}

// SetBatchDefaults 批处理默认值
func SetBatchDefaults(v *viper.Viper) {
	v.SetDefault("audio_path", constants.DefaultAudioPath)
	v.SetDefault("sample_rate", constants.DefaultBatchRate)
	v.SetDefault("vad_mode", constants.DefaultVadMode)
	v.SetDefault("vad_provider", constants.VadTypeWebRTCVad)
	v.SetDefault("chunk_duration", constants.DefaultChunkDuration)
	v.SetDefault("repetitions", constants.DefaultRepetitions)
	v.SetDefault("overlay_amplitude", constants.DefaultOverlayAmplitude)
	v.SetDefault("plot_output", constants.DefaultPlotOutput)
	v.SetDefault("speech_output", "")
	setLogDefaults(v)
}

// SetLiveDefaults 实时模式默认值
func SetLiveDefaults(v *viper.Viper) {
	v.SetDefault("sample_rate", constants.DefaultLiveRate)
	v.SetDefault("vad_mode", constants.DefaultVadMode)
	v.SetDefault("vad_provider", constants.VadTypeWebRTCVad)
	v.SetDefault("frame_duration", constants.DefaultFrameDuration)
	v.SetDefault("queue_size", constants.DefaultQueueSize)
	setLogDefaults(v)
}

// ReadConfigFile 按扩展名读取 json/yaml 配置文件，path 为空时跳过
func ReadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	basePath, file := filepath.Split(path)

	fileName, fileExt := file, ""
	if pos := strings.LastIndex(file, "."); pos != -1 {
		fileName, fileExt = file[:pos], strings.ToLower(file[pos+1:])
	}

	switch fileExt {
	case "json":
		v.SetConfigType("json")
	case "yaml", "yml":
		v.SetConfigType("yaml")
	default:
		return fmt.Errorf("%w: unsupported config file type: %q", util.ErrInvalidConfiguration, fileExt)
	}
	if basePath == "" {
		basePath = "."
	}
	v.SetConfigName(fileName)
	v.AddConfigPath(basePath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: read config %s: %w", util.ErrInvalidConfiguration, path, err)
	}
	return nil
}

// LoadBatch 解析并校验批处理配置
func LoadBatch(v *viper.Viper) (*BatchConfig, error) {
	var cfg BatchConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", util.ErrInvalidConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLive 解析并校验实时配置
func LoadLive(v *viper.Viper) (*LiveConfig, error) {
	var cfg LiveConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", util.ErrInvalidConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *BatchConfig) Validate() error {
	if c.AudioPath == "" {
		return fmt.Errorf("%w: audio_path is empty", util.ErrInvalidConfiguration)
	}
	if c.Repetitions < 0 {
		return fmt.Errorf("%w: repetitions must be non-negative, got %d", util.ErrInvalidConfiguration, c.Repetitions)
	}
	if c.PlotOutput == "" {
		return fmt.Errorf("%w: plot_output is empty", util.ErrInvalidConfiguration)
	}
	return validateDetector(c.SampleRate, c.ChunkDuration, c.VadMode, c.VadProvider)
}

// FrameDuration 帧时长
func (c *BatchConfig) FrameDuration() time.Duration {
	return data.SecondsToDuration(c.ChunkDuration)
}

func (c *LiveConfig) Validate() error {
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue_size must be positive, got %d", util.ErrInvalidConfiguration, c.QueueSize)
	}
	return validateDetector(c.SampleRate, c.FrameDuration, c.VadMode, c.VadProvider)
}

// FrameLength 帧时长
func (c *LiveConfig) FrameLength() time.Duration {
	return data.SecondsToDuration(c.FrameDuration)
}

func validateDetector(sampleRate int, seconds float64, mode int, provider string) error {
	if mode < 0 || mode > 3 {
		return fmt.Errorf("%w: vad_mode must be one of 0,1,2,3, got %d", util.ErrInvalidConfiguration, mode)
	}
	frameSize, err := data.FrameSize(sampleRate, data.SecondsToDuration(seconds))
	if err != nil {
		return err
	}
	return vad.ValidateFrame(provider, sampleRate, frameSize)
}
