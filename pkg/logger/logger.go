package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls log level, output and rotation
type Options struct {
	Level string // debug, info, warn, error
	Dir   string // when set, logs rotate in this directory; otherwise stdout
	// MaxSize is the size in MB at which the log file rotates
	MaxSize int
}

// New creates a JSON zap logger. Log lines carry time, level, message,
// file, line and function keys so they can be shipped to the operational
// logging pipeline as-is.
func New(opts Options) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "message",
		CallerKey:      "file",
		FunctionKey:    "function",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var syncer zapcore.WriteSyncer
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, err
		}
		maxSize := opts.MaxSize
		if maxSize <= 0 {
			maxSize = 100
		}
		syncer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, "app.log"),
			MaxSize:    maxSize,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	} else {
		syncer = zapcore.AddSync(os.Stdout)
	}

	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), syncer, level)
	return zap.New(core, zap.AddCaller()), nil
}
