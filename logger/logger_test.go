package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	require.NotNil(t, Logger)
	// Must not panic before Initialize
	Logger.Infow("hello", FieldCount, 1)
	Named("test").Debug("still fine")
}

func TestInitialize(t *testing.T) {
	original := Logger
	t.Cleanup(func() { Logger = original; JSONOutput = false })

	require.NoError(t, Initialize(true, "debug"))
	assert.True(t, JSONOutput)
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(false, "warn"))
	assert.False(t, JSONOutput)
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	original := Logger
	t.Cleanup(func() { Logger = original })

	assert.Error(t, Initialize(false, "chatty"))
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	lvl, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, lvl)
}
