package live

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	data "speech-detection-webrtc/internal/data/audio"
	"speech-detection-webrtc/internal/domain/audio"
	"speech-detection-webrtc/internal/domain/vad"
	"speech-detection-webrtc/internal/util"
	log "speech-detection-webrtc/logger"

	"github.com/google/uuid"
)

// State 实时会话状态 Idle -> Streaming -> Stopped | Failed
type State int32

const (
	StateIdle State = iota
	StateStreaming
	StateStopped
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateStopped:
		return "stopped"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Result 单帧检测结果
type Result struct {
	Frame    data.Frame
	IsSpeech bool
}

// Reporter 每帧判定后同步调用，返回后才处理下一帧
type Reporter func(Result)

// Stats 会话统计
type Stats struct {
	vad.Stats
	Blocks         int
	StatusBlocks   int
	DeadlineMisses int
}

// Runner 一次实时检测会话，独占设备、分帧器和分类器，只能运行一次
type Runner struct {
	id            string
	device        Device
	classifier    *vad.Classifier
	chunker       *audio.StreamChunker
	report        Reporter
	sampleRate    int
	frameDuration time.Duration

	state     atomic.Int32
	closeOnce sync.Once
	closeErr  error
	stats     Stats
}

// NewRunner 创建会话，块大小等于一帧
func NewRunner(device Device, classifier *vad.Classifier, sampleRate int, frameDuration time.Duration, report Reporter) (*Runner, error) {
	if device == nil || classifier == nil {
		return nil, fmt.Errorf("%w: device and classifier are required", util.ErrInvalidConfiguration)
	}
	chunker, err := audio.NewStreamChunker(sampleRate, frameDuration)
	if err != nil {
		return nil, err
	}
	if report == nil {
		report = func(Result) {}
	}
	return &Runner{
		id:            uuid.NewString(),
		device:        device,
		classifier:    classifier,
		chunker:       chunker,
		report:        report,
		sampleRate:    sampleRate,
		frameDuration: frameDuration,
	}, nil
}

func (r *Runner) ID() string {
	return r.id
}

func (r *Runner) State() State {
	return State(r.state.Load())
}

// Stats 会话结束后读取
func (r *Runner) Stats() Stats {
	stats := r.stats
	stats.Stats = r.classifier.Stats()
	return stats
}

// Run 打开设备并阻塞处理，直到 ctx 结束（返回 nil，状态 Stopped）
// 或设备/分类出错（返回错误，状态 Failed）。设备在任何退出路径上只释放一次
func (r *Runner) Run(ctx context.Context) (err error) {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateStreaming)) {
		return fmt.Errorf("runner %s is %s, cannot run again", r.id, r.State())
	}
	logger := log.Log("session", r.id)

	defer func() {
		if cerr := r.release(); cerr != nil {
			logger.Warnf("release device failed: %v", cerr)
		}
		logger.Infof("session %s, frames: %d, speech: %d", r.State(), r.classifier.Stats().TotalFrames, r.classifier.Stats().SpeechFrames)
	}()

	if err := r.device.Open(r.sampleRate, r.chunker.FrameSize()); err != nil {
		r.state.Store(int32(StateFailed))
		return wrapDevice(err)
	}
	logger.Infof("streaming started, sampleRate: %d, frame: %v, mode: %d", r.sampleRate, r.frameDuration, r.classifier.Mode())

	for {
		block, err := r.device.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.state.Store(int32(StateStopped))
				logger.Infof("streaming stopped: %v", context.Cause(ctx))
				return nil
			}
			r.state.Store(int32(StateFailed))
			return wrapDevice(err)
		}

		r.stats.Blocks++
		if block.Status != 0 {
			r.stats.StatusBlocks++
			logger.Warnf("device status: %s", block.Status)
		}

		for _, frame := range r.chunker.Push(block.Samples) {
			start := time.Now()
			isSpeech, err := r.classifier.Classify(frame)
			if err != nil {
				r.state.Store(int32(StateFailed))
				return wrapDevice(err)
			}
			r.report(Result{Frame: frame, IsSpeech: isSpeech})

			if elapsed := time.Since(start); elapsed > r.frameDuration {
				r.stats.DeadlineMisses++
				logger.Warnf("frame %d at %v took %v, longer than frame duration %v", frame.Index, frame.Offset(), elapsed, r.frameDuration)
			}
		}

		// 两个块之间检查取消
		if ctx.Err() != nil {
			r.state.Store(int32(StateStopped))
			logger.Infof("streaming stopped: %v", context.Cause(ctx))
			return nil
		}
	}
}

func (r *Runner) release() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.device.Close()
	})
	return r.closeErr
}

func wrapDevice(err error) error {
	if errors.Is(err, util.ErrDevice) {
		return err
	}
	return fmt.Errorf("%w: %w", util.ErrDevice, err)
}
