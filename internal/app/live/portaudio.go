package live

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"speech-detection-webrtc/internal/util"
	log "speech-detection-webrtc/logger"

	"github.com/gordonklaus/portaudio"
)

var _ Device = (*PortAudioDevice)(nil)

// PortAudioDevice 默认输入设备，单声道 16-bit。
// 音频回调线程只做拷贝和入队，处理在 Runner 的协程里进行
type PortAudioDevice struct {
	queueSize int

	mu       sync.Mutex
	stream   *portaudio.Stream
	queue    *util.Queue[Block]
	overrun  bool
	opened   bool
	initDone bool
}

// NewPortAudioDevice queueSize 为回调线程与处理协程之间的缓冲块数
func NewPortAudioDevice(queueSize int) *PortAudioDevice {
	return &PortAudioDevice{queueSize: queueSize}
}

func (d *PortAudioDevice) Open(sampleRate int, blockSize int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.opened {
		return fmt.Errorf("%w: device already opened", util.ErrDevice)
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("%w: initialize portaudio: %w", util.ErrDevice, err)
	}
	d.initDone = true
	d.queue = util.NewQueue[Block](d.queueSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), blockSize, d.onBlock)
	if err != nil {
		d.terminate()
		return fmt.Errorf("%w: open input stream: %w", util.ErrDevice, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		d.terminate()
		return fmt.Errorf("%w: start input stream: %w", util.ErrDevice, err)
	}

	d.stream = stream
	d.opened = true
	log.Infof("录音设备已打开, sampleRate: %d, blockSize: %d", sampleRate, blockSize)
	return nil
}

// onBlock 运行在 portaudio 的回调线程上，不能阻塞
func (d *PortAudioDevice) onBlock(in []int16, _ portaudio.StreamCallbackTimeInfo, flags portaudio.StreamCallbackFlags) {
	samples := make([]int16, len(in))
	copy(samples, in)

	status := convertFlags(flags)
	if d.overrun {
		status |= StatusQueueOverrun
	}
	err := d.queue.TryPush(Block{Samples: samples, Status: status})
	d.overrun = errors.Is(err, util.ErrQueueFull)
}

func (d *PortAudioDevice) Read(ctx context.Context) (Block, error) {
	d.mu.Lock()
	queue := d.queue
	d.mu.Unlock()
	if queue == nil {
		return Block{}, fmt.Errorf("%w: device not opened", util.ErrDevice)
	}

	block, err := queue.Pop(ctx)
	if err != nil {
		if errors.Is(err, util.ErrQueueClosed) {
			return Block{}, fmt.Errorf("%w: input stream closed", util.ErrDevice)
		}
		return Block{}, err
	}
	return block, nil
}

// Dropped 因处理不及时被丢弃的块数
func (d *PortAudioDevice) Dropped() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.queue == nil {
		return 0
	}
	return d.queue.Dropped()
}

func (d *PortAudioDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var errs []error
	if d.stream != nil {
		if err := d.stream.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop stream: %w", err))
		}
		if err := d.stream.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close stream: %w", err))
		}
		d.stream = nil
	}
	if d.queue != nil {
		d.queue.Close()
	}
	if err := d.terminate(); err != nil {
		errs = append(errs, err)
	}
	d.opened = false

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", util.ErrDevice, errors.Join(errs...))
	}
	return nil
}

func (d *PortAudioDevice) terminate() error {
	if !d.initDone {
		return nil
	}
	d.initDone = false
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminate portaudio: %w", err)
	}
	return nil
}

func convertFlags(flags portaudio.StreamCallbackFlags) Status {
	var status Status
	if flags&portaudio.InputUnderflow != 0 {
		status |= StatusInputUnderflow
	}
	if flags&portaudio.InputOverflow != 0 {
		status |= StatusInputOverflow
	}
	if flags&portaudio.OutputUnderflow != 0 {
		status |= StatusOutputUnderflow
	}
	if flags&portaudio.OutputOverflow != 0 {
		status |= StatusOutputOverflow
	}
	if flags&portaudio.PrimingOutput != 0 {
		status |= StatusPrimingOutput
	}
	return status
}
