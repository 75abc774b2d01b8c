// Package log builds the zap loggers used by pontus-infra.
package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format is the output format of a logger.
type Format string

const (
	// FormatJSON emits one JSON object per entry.
	FormatJSON Format = "json"
	// FormatConsole emits human-readable, colorless lines.
	FormatConsole Format = "console"
)

// Formats is a list of log formats.
type Formats []Format

// AvailableFormats lists every supported Format.
var AvailableFormats = Formats{FormatJSON, FormatConsole}

func (f Formats) String() string {
	names := make([]string, 0, len(f))
	for _, format := range f {
		names = append(names, string(format))
	}
	return strings.Join(names, ", ")
}

// Contains reports whether s names one of the formats.
func (f Formats) Contains(s string) bool {
	for _, format := range f {
		if string(format) == s {
			return true
		}
	}
	return false
}

// Options configures a logger.
type Options struct {
	// Debug enables debug-level entries.
	Debug bool
	// Format is json or console.
	Format Format
}

// NewDefaultOptions returns console logging at info level.
func NewDefaultOptions() Options {
	return Options{Format: FormatConsole}
}

// AddFlags registers --log-debug and --log-format on fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Debug, "log-debug", o.Debug, "Enable debug logging")
	fs.StringVar((*string)(&o.Format), "log-format", string(o.Format), "Log format. Available are: "+AvailableFormats.String())
}

// Validate checks the options.
func (o Options) Validate() error {
	if !AvailableFormats.Contains(string(o.Format)) {
		return fmt.Errorf("invalid log format %q, available are: %s", o.Format, AvailableFormats)
	}
	return nil
}

// New returns a logger writing to stderr, so command output on stdout stays machine-readable.
func New(debug bool, format Format) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == FormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	opts := []zap.Option{zap.AddCaller()}
	if debug {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level), opts...)
}

// NewFromOptions returns a logger for o.
func NewFromOptions(o Options) *zap.Logger {
	return New(o.Debug, o.Format)
}
