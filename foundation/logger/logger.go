package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production logger. With an empty logDirectory it writes to
// stdout, otherwise to <logDirectory>/<service>.log.
func New(logDirectory string, service string, debug bool) (*zap.SugaredLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = false
	config.InitialFields = map[string]any{
		"service": service,
	}
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	if logDirectory != "" {
		if _, err := os.Stat(logDirectory); os.IsNotExist(err) {
			if err := os.MkdirAll(logDirectory, os.ModePerm); err != nil {
				return nil, err
			}
		}

		logPath := filepath.Join(logDirectory, service+".log")
		config.OutputPaths = []string{logPath}
	} else {
		config.OutputPaths = []string{"stdout"}
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return log.Sugar(), nil
}
