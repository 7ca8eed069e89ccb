package config

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// WatchLogLevel re-reads path whenever it changes and applies log.level to
// level. Other keys require a restart. A no-op when path is empty.
func WatchLogLevel(path string, level zap.AtomicLevel, logger *zap.Logger) error {
	if path == "" {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		raw := v.GetString("log.level")
		if raw == "" {
			return
		}
		next, err := zapcore.ParseLevel(raw)
		if err != nil {
			logger.Warn("Ignoring invalid log level", zap.String("level", raw), zap.Error(err))
			return
		}
		if next != level.Level() {
			level.SetLevel(next)
			logger.Info("Log level reloaded", zap.String("file", e.Name), zap.String("level", next.String()))
		}
	})
	v.WatchConfig()

	logger.Debug("Watching config", zap.String("path", path))
	return nil
}
