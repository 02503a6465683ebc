package live

import (
	"context"
	"fmt"
	"strings"
)

// Status 设备随数据块附带的状态位，非零表示发生过上溢/下溢等情况
type Status uint32

const (
	StatusInputUnderflow Status = 1 << iota
	StatusInputOverflow
	StatusOutputUnderflow
	StatusOutputOverflow
	StatusPrimingOutput
	// StatusQueueOverrun 回调线程推送时队列已满，之前有块被丢弃
	StatusQueueOverrun
)

func (s Status) String() string {
	if s == 0 {
		return "ok"
	}
	names := []string{"input_underflow", "input_overflow", "output_underflow", "output_overflow", "priming_output", "queue_overrun"}
	var parts []string
	for i, name := range names {
		if s&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("status(%d)", uint32(s))
	}
	return strings.Join(parts, "|")
}

// Block 设备一次回调交付的采样
type Block struct {
	Samples []int16
	Status  Status
}

// Device 录音设备抽象。Read 在设备关闭流后返回 ErrDevice 包装的错误，
// ctx 结束时返回 ctx.Err()
type Device interface {
	Open(sampleRate int, blockSize int) error
	Read(ctx context.Context) (Block, error)
	Close() error
}
