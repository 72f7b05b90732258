// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much the process logs
type Options struct {
	// Level is a logrus level name. Empty means info.
	Level string
	// Debug forces debug level and reports the calling file and line.
	Debug bool
	// File, when set, receives a rotated copy of every log line.
	File string
	// JSON switches from text to JSON lines.
	JSON bool
	// Output replaces stderr. Used by stdio MCP mode, where stdout is
	// reserved for the protocol.
	Output io.Writer
}

// Setup applies opts to the standard logrus logger. The returned closer
// flushes the log file, if any.
func Setup(opts Options) (io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	if opts.Debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetReportCaller(opts.Debug)

	if opts.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = io.MultiWriter(out, rotator)
		closer = rotator
	}
	log.SetOutput(out)

	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
