package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stdout, stderr, or file path
}

// NewLogger 创建新的日志实例
func NewLogger(cfg Config) (*zap.Logger, error) {
	l, _, err := NewLoggerWithLevel(cfg)
	return l, err
}

// NewLoggerWithLevel also returns the atomic level so callers can change
// verbosity at runtime.
func NewLoggerWithLevel(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	// 解析日志级别
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	atom := zap.NewAtomicLevelAt(level)

	format := cfg.Format
	if format != "console" {
		format = "json"
	}
	output := cfg.OutputPath
	if output == "" {
		output = "stdout"
	}

	// 配置编码器
	var encoderConfig zapcore.EncoderConfig
	if format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	config := zap.Config{
		Level:            atom,
		Development:      format == "console",
		Encoding:         format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := config.Build()
	if err != nil {
		return nil, atom, err
	}
	return l.With(zap.String("service", "oulia")), atom, nil
}
