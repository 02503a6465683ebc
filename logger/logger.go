package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"
)

func init() {
	// 默认输出到 stderr，标准输出留给检测结果
	log.SetOutput(os.Stderr)
	log.SetFormatter(Formatter(false))
}

// Options 日志初始化参数
type Options struct {
	Level string
	// Stdout 是否输出到终端(stderr)，为 false 且 File 为空时日志被丢弃
	Stdout bool
	// Path + File 组成日志文件路径，File 为空则不写文件
	Path   string
	File   string
	MaxAge int
}

// Init 按配置设置级别和输出目标，文件按天轮转
func Init(opts Options) error {
	level, err := log.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}
	log.SetLevel(level)

	if opts.File == "" {
		if opts.Stdout {
			log.SetOutput(os.Stderr)
		} else {
			log.SetOutput(io.Discard)
		}
		log.SetFormatter(Formatter(true))
		return nil
	}

	logPath := filepath.Join(opts.Path, opts.File)
	writer, err := rotatelogs.New(
		logPath+".%Y%m%d",
		rotatelogs.WithLinkName(logPath),
		rotatelogs.WithRotationCount(uint(max(opts.MaxAge, 1))),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("init log file %s: %w", logPath, err)
	}

	if opts.Stdout {
		log.SetOutput(io.MultiWriter(writer, os.Stderr))
		log.SetFormatter(Formatter(true))
	} else {
		log.SetOutput(writer)
		log.SetFormatter(Formatter(false))
	}
	return nil
}

// SetOutput 设置日志输出目标
func SetOutput(out io.Writer) {
	log.SetOutput(out)
}

// SetLevel 设置日志级别
func SetLevel(level log.Level) {
	log.SetLevel(level)
}

// getCaller 获取实际的调用者信息（跳过logger包装层）
// 调用栈：用户代码 -> logger.Info -> addCallerField -> getCaller，需要跳过3层
func getCaller() (string, int) {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		return "unknown", 0
	}
	return filepath.Base(file), line
}

func addCallerField() *log.Entry {
	file, line := getCaller()
	return log.WithField("caller", fmt.Sprintf("%s:%d", file, line))
}

func Info(args ...interface{}) {
	addCallerField().Info(args...)
}

func Error(args ...interface{}) {
	addCallerField().Error(args...)
}

func Debug(args ...interface{}) {
	addCallerField().Debug(args...)
}

func Warn(args ...interface{}) {
	addCallerField().Warn(args...)
}

func Infof(format string, args ...interface{}) {
	addCallerField().Infof(format, args...)
}

func Errorf(format string, args ...interface{}) {
	addCallerField().Errorf(format, args...)
}

func Debugf(format string, args ...interface{}) {
	addCallerField().Debugf(format, args...)
}

func Warnf(format string, args ...interface{}) {
	addCallerField().Warnf(format, args...)
}

// Log 以 key, value 成对的参数构造带字段的日志条目
func Log(args ...interface{}) *log.Entry {
	fields := log.Fields{}
	lenArgs := len(args)
	for i := 0; i < lenArgs; i = i + 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		if i <= lenArgs-2 {
			fields[key] = args[i+1]
			continue
		}
		fields[key] = ""
	}

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		file = "unknown"
		line = 0
	}
	fields["caller"] = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	return log.WithFields(fields)
}

func Formatter(isConsole bool) *nested.Formatter {
	return &nested.Formatter{
		FieldsOrder:      []string{"time", "level", "caller", "session", "msg"},
		HideKeys:         true,
		TimestampFormat:  "2006-01-02 15:04:05.000",
		CallerFirst:      true,
		NoUppercaseLevel: true,
		ShowFullLevel:    true,
		NoColors:         !isConsole,
		// 使用自定义的caller字段
		CustomCallerFormatter: func(frame *runtime.Frame) string {
			return ""
		},
	}
}
