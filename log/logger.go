// SPDX-License-Identifier: MIT

// Package log provides the structured logging layer shared by all
// vrachos packages, built on zerolog. The console rendering mirrors the
// classic vrachos format: colored level tags and timestamps shown as
// seconds elapsed since process start.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stdout)
	Service string    // optional service name attached to every log entry
	NoColor bool      // force-disable console colors
	JSON    bool      // emit raw JSON instead of the console format
}

var (
	once      sync.Once
	mu        sync.Mutex
	startTime = time.Now()

	consoleLevel = zerolog.InfoLevel
	console      io.Writer
	sinks        []io.Writer
	base         zerolog.Logger
)

// Configure initialises the global logger exactly once. Later calls are
// no-ops, so libraries may call it defensively while the binary keeps
// control over the effective settings.
func Configure(cfg Config) {
	once.Do(func() {
		level := zerolog.InfoLevel
		if cfg.Level != "" {
			if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
				level = parsed
			}
		} else if env := os.Getenv("LOG_LEVEL"); env != "" {
			if parsed, err := zerolog.ParseLevel(env); err == nil {
				level = parsed
			}
		}
		zerolog.TimeFieldFormat = time.RFC3339
		zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
			return filepath.Base(file) + ":" + strconv.Itoa(line)
		}

		out := cfg.Output
		if out == nil {
			out = os.Stdout
		}

		service := cfg.Service
		if service == "" {
			service = os.Getenv("LOG_SERVICE")
			if service == "" {
				service = "vrachos"
			}
		}

		mu.Lock()
		defer mu.Unlock()

		consoleLevel = level
		zerolog.SetGlobalLevel(level)

		if cfg.JSON {
			console = out
		} else {
			console = newConsoleWriter(out, cfg.NoColor)
		}

		base = zerolog.New(console).With().
			Timestamp().
			Caller().
			Str("service", service).
			Logger()
	})
}

// newConsoleWriter builds the human console writer: colored levels and a
// right-aligned relative timestamp ("   12.3456s"). Colors are dropped
// automatically when the writer is not a terminal.
func newConsoleWriter(out io.Writer, noColor bool) zerolog.ConsoleWriter {
	if !noColor {
		noColor = !writerIsTerminal(out)
	}
	return zerolog.ConsoleWriter{
		Out:             out,
		NoColor:         noColor,
		FormatTimestamp: func(any) string { return relTimestamp(time.Since(startTime)) },
	}
}

// relTimestamp renders elapsed time as "X.XXXXs" right-aligned to ten
// columns, matching the historical vrachos console layout.
func relTimestamp(elapsed time.Duration) string {
	return fmt.Sprintf("%9.4fs", elapsed.Seconds())
}

func writerIsTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// rebuild recomputes the base logger's output from the console writer,
// its threshold, and the attached file sinks. Caller holds mu.
//
// Without sinks the console threshold doubles as the global level.
// With sinks the global level drops to debug so files receive the full
// stream, and the console keeps its own threshold via a filtered
// writer.
func rebuild() {
	if len(sinks) == 0 {
		zerolog.SetGlobalLevel(consoleLevel)
		base = base.Output(console)
		return
	}

	writers := make([]io.Writer, 0, len(sinks)+1)
	writers = append(writers, &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: console},
		Level:  consoleLevel,
	})
	writers = append(writers, sinks...)

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	base = base.Output(zerolog.MultiLevelWriter(writers...))
}

func logger() zerolog.Logger {
	Configure(Config{})
	mu.Lock()
	defer mu.Unlock()
	return base
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// SetLevel adjusts the console level threshold at runtime. Attached
// file sinks keep receiving the full debug stream.
func SetLevel(level string) error {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	Configure(Config{})

	mu.Lock()
	defer mu.Unlock()
	consoleLevel = parsed
	rebuild()
	return nil
}

// AddFile attaches a persistent JSON log sink at the given path. The
// parent directory is created if needed. The console output keeps its
// configured format and threshold; the file always receives the full
// debug stream as JSON lines.
func AddFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}

	Configure(Config{})

	mu.Lock()
	defer mu.Unlock()
	sinks = append(sinks, f)
	rebuild()
	return nil
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	l := logger().With().Str(FieldComponent, component).Logger()
	return l
}

// Derive attaches arbitrary fields to a child logger using the provided builder function.
func Derive(build func(*zerolog.Context)) zerolog.Logger {
	ctx := logger().With()
	if build != nil {
		build(&ctx)
	}
	return ctx.Logger()
}
