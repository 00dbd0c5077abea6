package logging

import (
	"fmt"

	"github.com/ogurasousui/employee-organizer/internal/platform/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New は設定に従って標準エラー出力へ書き込む zap.Logger を構築します。
func New(cfg config.LogConfig) (*zap.Logger, error) {
	return build(cfg, nil)
}

// NewFileOnly はファイルへのみ出力するロガーを構築します。
// 端末 UI 実行中に画面を乱さないために使います。path が空の場合は何も出力しません。
func NewFileOnly(cfg config.LogConfig, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	return build(cfg, []string{path})
}

func build(cfg config.LogConfig, outputs []string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: parse level %q: %w", cfg.Level, err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.Encoding == "console" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if len(outputs) > 0 {
		zcfg.OutputPaths = outputs
		zcfg.ErrorOutputPaths = outputs
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build logger: %w", err)
	}
	return logger, nil
}
