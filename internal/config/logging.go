package config

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/skyline93/mman/internal/errors"
)

// SetupLogging configures the standard logger. Messages go to stderr, or to
// a rotated log file when one is configured.
func SetupLogging(cfg *Config, stderr io.Writer) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Fatalf(errors.ErrConfig, "invalid log_level: %v", err)
	}

	out, err := logOutput(cfg, stderr)
	if err != nil {
		return err
	}

	log.SetLevel(level)
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: cfg.LogFile == "",
		FullTimestamp:    cfg.LogFile != "",
	})
	return nil
}

func logOutput(cfg *Config, stderr io.Writer) (io.Writer, error) {
	if cfg.LogFile == "" {
		return stderr, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
		return nil, errors.Wrap(err, "MkdirAll")
	}

	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		LocalTime:  true,
	}, nil
}
