package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base  = zap.NewNop()
	sugar = base.Sugar()
)

// Init builds the process-wide logger. level is one of debug, info, warn,
// error; format is "json" or "console".
func Init(level, format string) {
	SetLogger(New(level, format))
}

// New builds a zap logger writing to stdout, errors to stderr.
func New(level, format string) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	lvl := parseLevel(level)
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= lvl && l < zapcore.ErrorLevel
		})),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= lvl && l >= zapcore.ErrorLevel
		})),
	)

	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("service", "gymcore"))
}

// SetLogger swaps the process-wide logger; tests use it with an observer core.
func SetLogger(l *zap.Logger) {
	base = l
	sugar = l.Sugar()
}

// L exposes the underlying zap logger for components that take one.
func L() *zap.Logger {
	return base
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func Info(msg string, keysAndValues ...interface{}) {
	sugar.Infow(msg, keysAndValues...)
}

func Infof(format string, v ...interface{}) {
	sugar.Infof(format, v...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	sugar.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	sugar.Errorw(msg, keysAndValues...)
}

func Errorf(format string, v ...interface{}) {
	sugar.Errorf(format, v...)
}

func Debug(msg string, keysAndValues ...interface{}) {
	sugar.Debugw(msg, keysAndValues...)
}

func Fatalf(format string, v ...interface{}) {
	sugar.Fatalf(format, v...)
}

func Sync() error {
	return base.Sync()
}
