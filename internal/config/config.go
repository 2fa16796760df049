// Package config loads and validates the burrow configuration file.
package config

import (
	"fmt"
	"net"
	"os"
	"runtime"
	"strconv"

	"github.com/goccy/go-yaml"
)

// Config is the root of the YAML configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Tunnel  TunnelConfig  `yaml:"tunnel"`
	Admin   AdminConfig   `yaml:"admin"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the UDP listener and its worker pool.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Workers is either "auto" (one per CPU) or a positive integer.
	Workers string `yaml:"workers"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// WorkerCount resolves the workers setting to a concrete count.
// Call Validate first; on an unvalidated config it falls back to auto.
func (s ServerConfig) WorkerCount() int {
	if n, err := strconv.Atoi(s.Workers); err == nil && n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// TunnelConfig configures the DNS tunnel handler.
type TunnelConfig struct {
	// Domain is the base domain the handler answers for, e.g. "tunnel.example.com".
	Domain string `yaml:"domain"`
	// AnswerIPv4 is the fixed address returned for accepted A queries.
	AnswerIPv4 string    `yaml:"answer_ipv4"`
	XOR        XORConfig `yaml:"xor"`
	// FilesDir, when set, is served chunk-by-chunk over TXT queries.
	FilesDir string `yaml:"files_dir"`
}

// XORConfig configures the label obfuscation scheme.
type XORConfig struct {
	Key    uint8  `yaml:"key"`
	Signal string `yaml:"signal"`
}

// AdminConfig configures the HTTP admin endpoint.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// Addr returns the host:port admin listen address.
func (a AdminConfig) Addr() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// LoggingConfig configures the slog setup.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is "text" or "json".
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    5353,
			Workers: "auto",
		},
		Tunnel: TunnelConfig{
			Domain:     "tunnel.example.com",
			AnswerIPv4: "203.0.113.7",
			XOR:        XORConfig{Key: 0x5A, Signal: "msg"},
		},
		Admin: AdminConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8053,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path, overlays it on the defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values that would fail at startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.Workers != "auto" {
		n, err := strconv.Atoi(c.Server.Workers)
		if err != nil || n < 1 {
			return fmt.Errorf("server.workers must be \"auto\" or a positive integer, got %q", c.Server.Workers)
		}
	}
	if c.Tunnel.Domain == "" {
		return fmt.Errorf("tunnel.domain must not be empty")
	}
	if ip := net.ParseIP(c.Tunnel.AnswerIPv4); ip == nil || ip.To4() == nil {
		return fmt.Errorf("tunnel.answer_ipv4 must be an IPv4 address, got %q", c.Tunnel.AnswerIPv4)
	}
	if c.Tunnel.XOR.Signal == "" {
		return fmt.Errorf("tunnel.xor.signal must not be empty")
	}
	if c.Tunnel.FilesDir != "" {
		info, err := os.Stat(c.Tunnel.FilesDir)
		if err != nil {
			return fmt.Errorf("tunnel.files_dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("tunnel.files_dir %s is not a directory", c.Tunnel.FilesDir)
		}
	}
	if c.Admin.Enabled && (c.Admin.Port < 1 || c.Admin.Port > 65535) {
		return fmt.Errorf("admin.port must be in 1..65535, got %d", c.Admin.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}
