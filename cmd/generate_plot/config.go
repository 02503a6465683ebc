package main

import (
	"speech-detection-webrtc/constants"
	"speech-detection-webrtc/internal/config"
	"speech-detection-webrtc/logger"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("generate_plot", pflag.ExitOnError)
	flags.StringP("config", "c", "", "配置文件路径 (json/yaml)，可选")
	flags.String("audio_path", constants.DefaultAudioPath, "Path to the input audio file")
	flags.Int("sample_rate", constants.DefaultBatchRate, "Sample rate of the audio")
	flags.Int("vad_mode", constants.DefaultVadMode, "VAD mode (0-3)")
	flags.Float64("chunk_duration", constants.DefaultChunkDuration, "Duration of audio chunks (in seconds)")
	flags.Int("repetitions", constants.DefaultRepetitions, "Number of repetitions for predictions")
	flags.String("vad_provider", constants.VadTypeWebRTCVad, "VAD provider (webrtc_vad, energy_vad)")
	flags.String("plot_output", constants.DefaultPlotOutput, "Output image path (png/svg/pdf)")
	flags.String("speech_output", "", "Optional wav path to export speech frames")
	return flags
}

// Init 读取配置文件、合并命令行参数并初始化日志
func Init(flags *pflag.FlagSet) (*config.BatchConfig, error) {
	v := viper.GetViper()
	config.SetBatchDefaults(v)

	configFile, _ := flags.GetString("config")
	if err := config.ReadConfigFile(v, configFile); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	cfg, err := config.LoadBatch(v)
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
