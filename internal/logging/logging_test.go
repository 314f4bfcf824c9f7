package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level  string
		format string
		want   zap.AtomicLevel
	}{
		{level: "debug", format: "console", want: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{level: "info", format: "json", want: zap.NewAtomicLevelAt(zap.InfoLevel)},
		{level: "warn", format: "", want: zap.NewAtomicLevelAt(zap.WarnLevel)},
		{level: "error", format: "json", want: zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}

	for _, tt := range tests {
		logger, err := New(tt.level, tt.format)
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(tt.want.Level()))
		if tt.want.Level() > zap.DebugLevel {
			require.False(t, logger.Core().Enabled(tt.want.Level()-1))
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	t.Parallel()

	_, err := New("loud", "json")
	require.Error(t, err)

	_, err = New("info", "xml")
	require.Error(t, err)
}
