package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mavftpctl.ini")
	contents := `
[connection]
endpoint = udp://192.168.1.10:14550
target_system = 42
own_component = 200

[client]
timeout_ms = 750
debug = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "udp://192.168.1.10:14550", cfg.Connection.Endpoint)
	assert.Equal(t, uint8(42), cfg.Connection.TargetSystem)
	assert.Equal(t, uint8(200), cfg.Connection.OwnComponent)
	assert.Equal(t, uint8(255), cfg.Connection.OwnSystem) // untouched default
	assert.Equal(t, 750*time.Millisecond, cfg.Client.Timeout)
	assert.True(t, cfg.Client.Debug)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path.ini")
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint8(1), cfg.Connection.TargetSystem)
	assert.False(t, cfg.Client.Debug)
}
