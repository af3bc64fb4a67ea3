// Package logger builds the zerolog loggers used by catalog-api.
//
// New returns a configured logger and leaves package state alone, so tests
// can build as many as they like. Init installs one as the process logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how a logger is built.
type Options struct {
	// Level is a zerolog level name ("warning" is accepted for warn).
	// Empty or unknown values fall back to info.
	Level string
	// Pretty switches to the coloured console writer and adds caller info.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service and Version are attached to every entry when set.
	Service string
	Version string
}

var (
	mu      sync.RWMutex
	process *zerolog.Logger
)

// New builds a logger from opts.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(out).Level(parseLevel(opts.Level)).With().Timestamp()
	if opts.Pretty {
		ctx = ctx.Caller()
	}
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	if opts.Version != "" {
		ctx = ctx.Str("version", opts.Version)
	}
	return ctx.Logger()
}

// Init installs the process logger and makes it the fallback for
// zerolog.Ctx. Only the first call builds one; later calls return it.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if process != nil {
		return *process
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	l := New(opts)
	process = &l
	zerolog.DefaultContextLogger = process
	return l
}

// Get returns the process logger. It panics before Init.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if process == nil {
		panic("logger: Get called before Init")
	}
	return *process
}

// Reset drops the process logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	process = nil
	zerolog.DefaultContextLogger = nil
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
