package batch

import (
	"errors"
	"fmt"
	"os"

	"speech-detection-webrtc/internal/config"
	data "speech-detection-webrtc/internal/data/audio"
	"speech-detection-webrtc/internal/domain/audio"
	"speech-detection-webrtc/internal/domain/vad"
	log "speech-detection-webrtc/logger"
)

// Report 一次批处理的全部中间结果
type Report struct {
	Waveform  *audio.Waveform
	Frames    []data.Frame
	Decisions []bool
	// Overlay 按 repetitions 展开并乘以显示幅度后的判定序列
	Overlay []float64
	Stats   vad.Stats
	// Dropped 末尾不足一帧而被丢弃的采样数
	Dropped int
}

// Detector 批处理任务：加载 -> 分帧 -> 分类 -> 对齐 -> 绘图，全程单协程顺序执行
type Detector struct {
	cfg        *config.BatchConfig
	chunker    *audio.Chunker
	classifier *vad.Classifier
}

// NewDetector classifier 由调用方创建和关闭，只供这一次任务使用
func NewDetector(cfg *config.BatchConfig, classifier *vad.Classifier) (*Detector, error) {
	chunker, err := audio.NewChunker(cfg.SampleRate, cfg.FrameDuration())
	if err != nil {
		return nil, err
	}
	return &Detector{
		cfg:        cfg,
		chunker:    chunker,
		classifier: classifier,
	}, nil
}

// Detect 对缓冲区逐帧分类，任何一帧出错都中止
func (d *Detector) Detect(buf data.Buffer) ([]data.Frame, []bool, error) {
	count := d.chunker.Count(buf.Len())
	frames := make([]data.Frame, 0, count)
	decisions := make([]bool, 0, count)

	for frame := range d.chunker.Frames(buf) {
		isSpeech, err := d.classifier.Classify(frame)
		if err != nil {
			return nil, nil, err
		}
		frames = append(frames, frame)
		decisions = append(decisions, isSpeech)
	}
	return frames, decisions, nil
}

// Run 执行完整流程。出错时不会生成任何图片
func (d *Detector) Run() (*Report, error) {
	waveform, err := audio.LoadFile(d.cfg.AudioPath, d.cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	buf, err := waveform.ToBuffer()
	if err != nil {
		return nil, err
	}
	log.Infof("音频已加载: %s, 采样点: %d, 时长: %v", d.cfg.AudioPath, buf.Len(), buf.Duration())

	frames, decisions, err := d.Detect(buf)
	if err != nil {
		return nil, err
	}

	aligned, err := audio.Align(decisions, d.cfg.Repetitions)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Waveform:  waveform,
		Frames:    frames,
		Decisions: decisions,
		Overlay:   audio.Scale(aligned, d.cfg.OverlayAmplitude),
		Stats:     d.classifier.Stats(),
		Dropped:   d.chunker.Remainder(buf.Len()),
	}

	// 语音导出在绘图之前：任何一步失败都不留下图片
	if d.cfg.SpeechOutput != "" {
		speech := audio.SpeechSamples(frames, decisions)
		if err := audio.WriteWav(d.cfg.SpeechOutput, speech, d.chunker.SampleRate()); err != nil {
			removeOutputs(d.cfg.SpeechOutput)
			return nil, fmt.Errorf("export speech frames: %w", err)
		}
		log.Infof("语音片段已导出: %s, 采样点: %d", d.cfg.SpeechOutput, len(speech))
	}

	if err := Plot(d.cfg.PlotOutput, report, d.chunker.FrameDuration(), d.cfg.Repetitions); err != nil {
		removeOutputs(d.cfg.PlotOutput, d.cfg.SpeechOutput)
		return nil, err
	}
	log.Infof("检测结果图已保存: %s", d.cfg.PlotOutput)

	log.Infof("总帧数: %d, 语音帧数: %d, 语音活动比例: %.2f%%, 丢弃尾部采样: %d",
		report.Stats.TotalFrames, report.Stats.SpeechFrames, report.Stats.SpeechRatio()*100, report.Dropped)
	return report, nil
}

// removeOutputs 清理失败时可能写了一半的输出文件
func removeOutputs(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("remove %s failed: %v", path, err)
		}
	}
}
