package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"speech-detection-webrtc/internal/app/live"
	"speech-detection-webrtc/internal/config"
	"speech-detection-webrtc/internal/domain/vad"
	"speech-detection-webrtc/internal/util"
	log "speech-detection-webrtc/logger"
)

func main() {
	flags := newFlagSet()
	flags.Parse(os.Args[1:])

	cfg, err := Init(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init err: %+v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Errorf("实时检测失败: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.LiveConfig) error {
	detector, err := vad.NewVAD(cfg.VadProvider, cfg.VadMode)
	if err != nil {
		return err
	}
	classifier, err := vad.NewClassifier(detector, cfg.VadMode)
	if err != nil {
		detector.Close()
		return err
	}
	defer classifier.Close()

	device := live.NewPortAudioDevice(cfg.QueueSize)
	runner, err := live.NewRunner(device, classifier, cfg.SampleRate, cfg.FrameLength(), func(r live.Result) {
		if r.IsSpeech {
			fmt.Println(1)
		} else {
			fmt.Println(0)
		}
	})
	if err != nil {
		return err
	}

	// 阻塞监听退出信号
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	go func() {
		select {
		case <-quit:
			cancel(util.ErrUserInterrupt)
		case <-ctx.Done():
		}
	}()

	log.Info("开始实时检测，按 Ctrl+C 退出")
	err = runner.Run(ctx)

	stats := runner.Stats()
	log.Infof("总帧数: %d, 语音帧数: %d, 语音活动比例: %.2f%%, 异常状态块: %d, 超时帧: %d, 丢弃块: %d",
		stats.TotalFrames, stats.SpeechFrames, stats.SpeechRatio()*100,
		stats.StatusBlocks, stats.DeadlineMisses, device.Dropped())
	return err
}
