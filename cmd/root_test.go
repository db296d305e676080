package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "config.yaml")

	assert.Equal(t, "", configPath(missing, false))
	assert.Equal(t, missing, configPath(missing, true))

	require.NoError(t, os.WriteFile(missing, []byte("log:\n  level: debug\n"), 0o600))
	assert.Equal(t, missing, configPath(missing, false))
}
