package batch

import (
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	waveColor    = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	overlayColor = color.RGBA{R: 255, A: 255}
)

// Plot 把波形和判定阶梯线画到同一张图，按扩展名输出 png/svg/pdf。
// 第 k 个展开值位于 k * frameDuration / repetitions 秒处，与波形时间轴对齐
func Plot(path string, report *Report, frameDuration time.Duration, repetitions int) error {
	p := plot.New()
	p.Title.Text = "Speech Activity Detection"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Amplitude"
	p.Add(plotter.NewGrid())

	rate := float64(report.Waveform.SampleRate)
	wave := make(plotter.XYs, len(report.Waveform.Samples))
	for i, v := range report.Waveform.Samples {
		wave[i].X = float64(i) / rate
		wave[i].Y = v
	}

	step := 0.0
	if repetitions > 0 {
		step = frameDuration.Seconds() / float64(repetitions)
	}
	overlay := make(plotter.XYs, len(report.Overlay))
	for k, v := range report.Overlay {
		overlay[k].X = float64(k) * step
		overlay[k].Y = v
	}

	if len(wave) > 0 {
		line, err := plotter.NewLine(wave)
		if err != nil {
			return fmt.Errorf("build waveform line: %w", err)
		}
		line.LineStyle.Width = vg.Points(0.5)
		line.LineStyle.Color = waveColor
		p.Add(line)
		p.Legend.Add("Audio Wave", line)
	}
	if len(overlay) > 0 {
		line, err := plotter.NewLine(overlay)
		if err != nil {
			return fmt.Errorf("build prediction line: %w", err)
		}
		line.LineStyle.Width = vg.Points(0.75)
		line.LineStyle.Color = overlayColor
		p.Add(line)
		p.Legend.Add("Predictions", line)
	}

	if err := p.Save(6*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
