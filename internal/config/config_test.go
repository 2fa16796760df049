package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowdns/burrow/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "burrow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "0.0.0.0:5353", cfg.Server.Addr())
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Server.WorkerCount())
}

func TestLoad_OverlaysOnDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 1053
  workers: "8"
tunnel:
  domain: chat.example.org
logging:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1053, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Server.WorkerCount())
	assert.Equal(t, "chat.example.org", cfg.Tunnel.Domain)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "203.0.113.7", cfg.Tunnel.AnswerIPv4)
	assert.Equal(t, "msg", cfg.Tunnel.XOR.Signal)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"port zero", func(c *config.Config) { c.Server.Port = 0 }},
		{"port too high", func(c *config.Config) { c.Server.Port = 70000 }},
		{"workers junk", func(c *config.Config) { c.Server.Workers = "many" }},
		{"workers zero", func(c *config.Config) { c.Server.Workers = "0" }},
		{"empty domain", func(c *config.Config) { c.Tunnel.Domain = "" }},
		{"bad answer ip", func(c *config.Config) { c.Tunnel.AnswerIPv4 = "not-an-ip" }},
		{"ipv6 answer", func(c *config.Config) { c.Tunnel.AnswerIPv4 = "2001:db8::1" }},
		{"empty signal", func(c *config.Config) { c.Tunnel.XOR.Signal = "" }},
		{"missing files dir", func(c *config.Config) { c.Tunnel.FilesDir = "/does/not/exist" }},
		{"admin port", func(c *config.Config) { c.Admin.Enabled = true; c.Admin.Port = -1 }},
		{"log level", func(c *config.Config) { c.Logging.Level = "verbose" }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_FilesDirMustBeDirectory(t *testing.T) {
	cfg := config.Default()
	file := writeConfig(t, "not a dir")
	cfg.Tunnel.FilesDir = file
	require.Error(t, cfg.Validate())

	cfg.Tunnel.FilesDir = filepath.Dir(file)
	require.NoError(t, cfg.Validate())
}

func TestWorkerCount_Auto(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Workers = "auto"
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Server.WorkerCount())
}
