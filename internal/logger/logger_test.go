package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetLogLevel(t *testing.T) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
}

func TestNewReadsLevelFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Chdir(dir)
	unsetLogLevel(t)

	assert.Equal(t, zerolog.DebugLevel, New().GetLevel())
}

func TestNewEnvironmentWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("LOG_LEVEL", "warn")

	assert.Equal(t, zerolog.WarnLevel, New().GetLevel())
}

func TestNewDefaultsToInfo(t *testing.T) {
	t.Chdir(t.TempDir())
	unsetLogLevel(t)

	assert.Equal(t, zerolog.InfoLevel, New().GetLevel())

	t.Setenv("LOG_LEVEL", "loud")
	assert.Equal(t, zerolog.InfoLevel, New().GetLevel())
}
