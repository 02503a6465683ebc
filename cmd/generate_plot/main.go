package main

import (
	"fmt"
	"os"

	"speech-detection-webrtc/internal/app/batch"
	"speech-detection-webrtc/internal/config"
	"speech-detection-webrtc/internal/domain/vad"
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
		log.Errorf("检测失败: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.BatchConfig) error {
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

	job, err := batch.NewDetector(cfg, classifier)
	if err != nil {
		return err
	}
	_, err = job.Run()
	return err
}
