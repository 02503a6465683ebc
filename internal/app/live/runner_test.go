package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"speech-detection-webrtc/internal/domain/vad"
	"speech-detection-webrtc/internal/domain/vad/energy_vad"
	"speech-detection-webrtc/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDevice 按顺序交付预设的块，交付完后阻塞直到 ctx 结束或返回 endErr
type fakeDevice struct {
	mu        sync.Mutex
	blocks    []Block
	openErr   error
	endErr    error
	opened    int
	closed    int
	blockSize int
	delivered chan struct{}
}

func newFakeDevice(blocks ...Block) *fakeDevice {
	return &fakeDevice{blocks: blocks, delivered: make(chan struct{})}
}

func (f *fakeDevice) Open(sampleRate int, blockSize int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened++
	f.blockSize = blockSize
	return f.openErr
}

func (f *fakeDevice) Read(ctx context.Context) (Block, error) {
	f.mu.Lock()
	if len(f.blocks) > 0 {
		block := f.blocks[0]
		f.blocks = f.blocks[1:]
		f.mu.Unlock()
		return block, nil
	}
	endErr := f.endErr
	f.mu.Unlock()

	select {
	case <-f.delivered:
	default:
		close(f.delivered)
	}
	if endErr != nil {
		return Block{}, endErr
	}
	<-ctx.Done()
	return Block{}, ctx.Err()
}

func (f *fakeDevice) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func block(n int, value int16, status Status) Block {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = value
	}
	return Block{Samples: samples, Status: status}
}

func newTestClassifier(t *testing.T) *vad.Classifier {
	detector, err := energy_vad.NewEnergyVAD(1)
	require.NoError(t, err)
	classifier, err := vad.NewClassifier(detector, 1)
	require.NoError(t, err)
	return classifier
}

func TestRunnerStreamsUntilInterrupt(t *testing.T) {
	device := newFakeDevice(
		block(240, 0, 0),
		block(240, 8000, StatusInputOverflow),
		block(100, 8000, 0),
		block(140, 8000, 0),
	)

	var results []Result
	runner, err := NewRunner(device, newTestClassifier(t), 8000, 30*time.Millisecond, func(r Result) {
		results = append(results, r)
	})
	require.NoError(t, err)
	assert.Equal(t, StateIdle, runner.State())
	assert.NotEmpty(t, runner.ID())

	ctx, cancel := context.WithCancelCause(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	<-device.delivered
	assert.Equal(t, StateStreaming, runner.State())
	cancel(util.ErrUserInterrupt)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}

	assert.Equal(t, StateStopped, runner.State())
	assert.Equal(t, 1, device.opened)
	assert.Equal(t, 1, device.closed)
	assert.Equal(t, 240, device.blockSize)

	require.Len(t, results, 3)
	assert.False(t, results[0].IsSpeech)
	assert.True(t, results[1].IsSpeech)
	assert.True(t, results[2].IsSpeech)
	for i, r := range results {
		assert.Equal(t, i, r.Frame.Index)
		assert.Len(t, r.Frame.Samples, 240)
	}

	stats := runner.Stats()
	assert.Equal(t, 4, stats.Blocks)
	assert.Equal(t, 1, stats.StatusBlocks)
	assert.Equal(t, 3, stats.TotalFrames)
	assert.Equal(t, 2, stats.SpeechFrames)
}

func TestRunnerDeviceFailure(t *testing.T) {
	device := newFakeDevice(block(240, 0, 0))
	device.endErr = errors.New("usb unplugged")

	runner, err := NewRunner(device, newTestClassifier(t), 8000, 30*time.Millisecond, nil)
	require.NoError(t, err)

	err = runner.Run(context.Background())
	assert.ErrorIs(t, err, util.ErrDevice)
	assert.Contains(t, err.Error(), "usb unplugged")
	assert.Equal(t, StateFailed, runner.State())
	assert.Equal(t, 1, device.closed)
}

func TestRunnerClassifierFailure(t *testing.T) {
	device := newFakeDevice(block(240, 8000, 0))
	classifier := newTestClassifier(t)
	// 已关闭的检测器对每一帧都返回错误
	require.NoError(t, classifier.Close())

	var results []Result
	runner, err := NewRunner(device, classifier, 8000, 30*time.Millisecond, func(r Result) {
		results = append(results, r)
	})
	require.NoError(t, err)

	err = runner.Run(context.Background())
	assert.ErrorIs(t, err, util.ErrDevice)
	assert.Contains(t, err.Error(), "classify frame 0")
	assert.Equal(t, StateFailed, runner.State())
	assert.Equal(t, 1, device.opened)
	assert.Equal(t, 1, device.closed)
	assert.Empty(t, results)
}

func TestRunnerOpenFailure(t *testing.T) {
	device := newFakeDevice()
	device.openErr = errors.New("no input device")

	runner, err := NewRunner(device, newTestClassifier(t), 8000, 30*time.Millisecond, nil)
	require.NoError(t, err)

	err = runner.Run(context.Background())
	assert.ErrorIs(t, err, util.ErrDevice)
	assert.Equal(t, StateFailed, runner.State())
	assert.Equal(t, 1, device.closed)
}

func TestRunnerRunsOnlyOnce(t *testing.T) {
	device := newFakeDevice()
	runner, err := NewRunner(device, newTestClassifier(t), 8000, 30*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, runner.Run(ctx))
	assert.Equal(t, StateStopped, runner.State())

	assert.Error(t, runner.Run(context.Background()))
	assert.Equal(t, 1, device.opened)
	assert.Equal(t, 1, device.closed)
}

func TestNewRunnerInvalid(t *testing.T) {
	_, err := NewRunner(nil, newTestClassifier(t), 8000, 30*time.Millisecond, nil)
	assert.ErrorIs(t, err, util.ErrInvalidConfiguration)

	_, err = NewRunner(newFakeDevice(), newTestClassifier(t), 0, 30*time.Millisecond, nil)
	assert.ErrorIs(t, err, util.ErrInvalidConfiguration)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "ok", Status(0).String())
	assert.Equal(t, "input_overflow|queue_overrun", (StatusInputOverflow | StatusQueueOverrun).String())
	assert.Equal(t, "streaming", StateStreaming.String())
}
