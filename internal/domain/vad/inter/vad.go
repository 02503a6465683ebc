package inter

// VAD 语音活动检测接口，对单帧 16-bit 小端 PCM 做二分类。
// 实现可能在帧之间保留自适应状态（如 WebRTC VAD 的噪声估计），
// 因此一个实例只能被一个会话按帧顺序使用
type VAD interface {
	// SetMode 设置敏感度模式 0~3，数值越大越激进地过滤非语音
	SetMode(mode int) error
	// IsSpeech 判断一帧是否为语音
	IsSpeech(frame []byte, sampleRate int) (bool, error)
	// Close 关闭并释放资源，可重复调用
	Close() error
}
