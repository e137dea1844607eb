package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		zap  zapcore.Level
	}{
		{"fatal", LogFatal, zapcore.FatalLevel},
		{"ERROR", LogError, zapcore.ErrorLevel},
		{"Warn", LogWarn, zapcore.WarnLevel},
		{"info", LogInfo, zapcore.InfoLevel},
		{"config", LogConfig, zapcore.DebugLevel},
		{"debug", LogDebug, zapcore.DebugLevel},
		{"trace", LogTrace, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		got, ok := ParseLogLevel(tt.in)
		assert.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.zap, got.ZapLevel(), tt.in)
	}

	_, ok := ParseLogLevel("warning")
	assert.False(t, ok)
	assert.Equal(t, "unknown", LogLevel(42).String())
}
