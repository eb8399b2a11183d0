package log

import (
	"fmt"
	"io"
	"os"

	"github.com/thisislithium/zora-protocol/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	Log   = zap.NewNop()
	Sugar = Log.Sugar()
	Write io.Writer = os.Stdout
)

// Init builds the global logger. An empty filename logs to stdout, which is
// what the one-shot commands use.
func Init(filename string) {
	ws, level := getConfigLogArgs(filename)
	encoderConf := zap.NewProductionEncoderConfig()
	encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConf.EncodeCaller = CallerEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConf)
	log := zap.New(
		zapcore.NewCore(encoder, ws, zap.NewAtomicLevelAt(level)),
		zap.AddCaller(),
	)
	Log = log
	Sugar = log.Sugar()
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "ERROR", "error":
		return zap.ErrorLevel
	case "WARN", "warn":
		return zap.WarnLevel
	case "DEBUG", "debug":
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

func getConfigLogArgs(filename string) (zapcore.WriteSyncer, zapcore.Level) {
	log := config.GetConfig().Log
	level := parseLevel(log.Level)

	if filename == "" {
		Write = os.Stdout
		return zapcore.Lock(os.Stdout), level
	}

	logger := &lumberjack.Logger{
		Filename:   fmt.Sprintf("%s/%s", log.Dir, filename), // if logs dir not exist, it will be auto create
		MaxSize:    log.MaxSize,
		MaxBackups: log.MaxBackups,
		MaxAge:     log.MaxAge,
		Compress:   log.Compress,
		LocalTime:  true,
	}
	Write = logger

	return zapcore.AddSync(logger), level
}
