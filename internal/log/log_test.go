package log

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestOptions_AddFlags(t *testing.T) {
	opts := NewDefaultOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{"--log-debug", "--log-format", "json"}))
	assert.True(t, opts.Debug)
	assert.Equal(t, FormatJSON, opts.Format)
	assert.NoError(t, opts.Validate())
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, NewDefaultOptions().Validate())

	err := Options{Format: "xml"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json, console")
}

func TestNew_Levels(t *testing.T) {
	for _, format := range AvailableFormats {
		t.Run(string(format), func(t *testing.T) {
			debug := New(true, format)
			assert.True(t, debug.Core().Enabled(zapcore.DebugLevel))

			info := New(false, format)
			assert.False(t, info.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, info.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
