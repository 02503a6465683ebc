package main

import (
	"speech-detection-webrtc/constants"
	"speech-detection-webrtc/internal/config"
	"speech-detection-webrtc/logger"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("live_prediction", pflag.ExitOnError)
	flags.StringP("config", "c", "", "配置文件路径 (json/yaml)，可选")
	flags.Int("sample_rate", constants.DefaultLiveRate, "Sample rate of the microphone stream")
	flags.Int("vad_mode", constants.DefaultVadMode, "VAD mode, one of 0,1,2,3")
	flags.Float64("frame_duration", constants.DefaultFrameDuration, "Frame duration in seconds (0.01, 0.02 or 0.03)")
	flags.String("vad_provider", constants.VadTypeWebRTCVad, "VAD provider (webrtc_vad, energy_vad)")
	flags.Int("queue_size", constants.DefaultQueueSize, "Blocks buffered between the audio callback and the detector")
	return flags
}

// Init 读取配置文件、合并命令行参数并初始化日志
func Init(flags *pflag.FlagSet) (*config.LiveConfig, error) {
	v := viper.GetViper()
	config.SetLiveDefaults(v)

	configFile, _ := flags.GetString("config")
	if err := config.ReadConfigFile(v, configFile); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	cfg, err := config.LoadLive(v)
	if err != nil {
		return nil, err
	}

	err = logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Stdout: cfg.Log.Stdout,
		Path:   cfg.Log.Path,
		File:   cfg.Log.File,
		MaxAge: cfg.Log.MaxAge,
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
