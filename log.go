package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type logOptions struct {
	Verbosity int
	Quiet     bool
	File      string
	FileLevel string
}

// consoleLevel maps the -v count to a level, warnings only by default.
func consoleLevel(verbosity int) zerolog.Level {
	switch {
	case verbosity >= 2:
		return zerolog.DebugLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	default:
		return zerolog.WarnLevel
	}
}

// newLogger builds the root logger. The console and the optional log file
// each filter on their own level. The returned closer releases the file.
func newLogger(opts logOptions, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = io.NopCloser(nil)

	if !opts.Quiet {
		console := zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.TimeOnly}
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: console},
			Level:  consoleLevel(opts.Verbosity),
		})
	}

	if opts.File != "" {
		level, err := zerolog.ParseLevel(opts.FileLevel)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		if level == zerolog.NoLevel {
			level = zerolog.InfoLevel
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		closer = f
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: f},
			Level:  level,
		})
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}

func withComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
