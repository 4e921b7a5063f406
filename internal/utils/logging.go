package utils

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// InitLogging builds the process logger: human readable output on console
// (skipped when nil) plus, when a log file is configured, a size-rotated JSON log.
func InitLogging(config *Config, console io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(config.Logging.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var writers []io.Writer
	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: console, TimeFormat: "15:04:05"})
	}

	if config.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(config.Logging.File), 0o750); err != nil {
			return zerolog.Nop(), err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.Logging.File,
			MaxSize:    config.Logging.MaxSizeMB,
			MaxBackups: config.Logging.MaxBackups,
		})
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	return zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().Timestamp().Logger(), nil
}
