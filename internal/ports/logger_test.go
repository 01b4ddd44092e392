package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(99).String())
}

func TestF(t *testing.T) {
	t.Parallel()

	f := F("step", "homebrew:install")
	assert.Equal(t, "step", f.Key)
	assert.Equal(t, "homebrew:install", f.Value)
}

func TestLoggerFromContext_Missing(t *testing.T) {
	t.Parallel()

	assert.Nil(t, LoggerFromContext(context.Background()))
}
