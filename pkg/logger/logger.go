// Package logger builds the zap loggers used by the CLI.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for repeated -v flags.
const (
	VerbosityQuiet = -1 // --quiet: errors only
	VerbosityUser  = 0  // No flags: warnings and errors
	VerbosityInfo  = 1  // -v: + per-file progress
	VerbosityDebug = 2  // -vv: + cache, profile and store details
)

// Options configures New.
type Options struct {
	Verbosity int
	JSON      bool
	// Output defaults to stderr so logs never mix with reports on stdout.
	Output io.Writer
}

// VerbosityToLevel maps verbosity flags to zap levels.
//
//	-1 (--quiet) -> ErrorLevel
//	 0 (none)    -> WarnLevel
//	 1 (-v)      -> InfoLevel
//	 2+ (-vv)    -> DebugLevel
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityQuiet:
		return zapcore.ErrorLevel
	case verbosity == VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// New builds a logger: JSON lines for machines, or a compact console
// format without timestamps for people.
func New(opts Options) *zap.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if opts.JSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			LevelKey:         "level",
			MessageKey:       "msg",
			NameKey:          "logger",
			EncodeLevel:      zapcore.CapitalLevelEncoder,
			EncodeName:       zapcore.FullNameEncoder,
			ConsoleSeparator: " ",
		})
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), VerbosityToLevel(opts.Verbosity))
	return zap.New(core)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
