package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sortieapp/sortie/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("console logger to stdout", func(t *testing.T) {
		l, err := NewLogger(&config.LoggingConfig{Level: "info", Format: "console", Output: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, l)
		assert.Nil(t, l.file)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("json logger to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := NewLogger(&config.LoggingConfig{
			Level: "debug", Format: "json", Output: "file", FilePath: path,
		})
		require.NoError(t, err)
		require.NotNil(t, l.file)

		l.Info("hello", zap.String("k", "v"))
		require.NoError(t, l.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"hello"`)
		assert.Contains(t, string(data), `"k":"v"`)
	})

	t.Run("unwritable file path fails", func(t *testing.T) {
		_, err := NewLogger(&config.LoggingConfig{
			Level: "info", Format: "json", Output: "file",
			FilePath: filepath.Join(t.TempDir(), "missing", "app.log"),
		})
		assert.Error(t, err)
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.input), "level %q", tt.input)
	}
}

func TestLoggerWithHelpers(t *testing.T) {
	t.Run("WithTraceID adds the field", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trace.log")
		l, err := NewLogger(&config.LoggingConfig{
			Level: "info", Format: "json", Output: "file", FilePath: path,
		})
		require.NoError(t, err)

		l.WithTraceID("trace-123").Info("traced")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"trace_id":"trace-123"`)
	})

	t.Run("WithContext picks up the context trace ID", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ctx.log")
		l, err := NewLogger(&config.LoggingConfig{
			Level: "info", Format: "json", Output: "file", FilePath: path,
		})
		require.NoError(t, err)

		ctx := WithTraceID(t.Context(), "ctx-trace")
		l.WithContext(ctx).Info("from context")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"trace_id":"ctx-trace"`)
	})

	t.Run("WithContext without trace ID returns the same logger", func(t *testing.T) {
		l, err := NewDevelopmentLogger()
		require.NoError(t, err)
		assert.Same(t, l, l.WithContext(t.Context()))
	})
}
