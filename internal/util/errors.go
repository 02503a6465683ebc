package util

import "errors"

var (
	// ErrInvalidConfiguration 采样率/帧长组合非法，或 VAD 模式不在 {0,1,2,3}
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrAudioLoad 音频文件不存在、不可读或格式不支持
	ErrAudioLoad = errors.New("audio load failed")
	// ErrDevice 录音设备打开/读取失败
	ErrDevice = errors.New("audio device error")
	// ErrUserInterrupt 用户主动中断，不是真正的错误
	ErrUserInterrupt = errors.New("interrupted by user")
	// ErrSampleOutOfRange 归一化采样值超出 [-1, 1]
	ErrSampleOutOfRange = errors.New("normalized sample out of range")
)
