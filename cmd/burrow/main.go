package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"

	"github.com/burrowdns/burrow/internal/admin"
	"github.com/burrowdns/burrow/internal/config"
	"github.com/burrowdns/burrow/internal/dns"
	"github.com/burrowdns/burrow/internal/logging"
	"github.com/burrowdns/burrow/internal/server"
	"github.com/burrowdns/burrow/internal/tunnel"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML configuration file")
		host       = flag.String("host", "", "Override bind host")
		port       = flag.Int("port", 0, "Override bind port")
		workers    = flag.Int("workers", 0, "Override worker count (0 means config/auto)")
		domain     = flag.String("domain", "", "Override tunnel base domain")
		jsonLogs   = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *workers > 0 {
		cfg.Server.Workers = fmt.Sprintf("%d", *workers)
	}
	if *domain != "" {
		cfg.Tunnel.Domain = *domain
	}
	if *jsonLogs {
		cfg.Logging.Format = "json"
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	logger := logging.Configure(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Info("burrow starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"workers", cfg.Server.Workers,
		"domain", cfg.Tunnel.Domain,
		"admin", cfg.Admin.Enabled,
	)

	handler, err := buildHandler(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build handler: %v\n", err)
		os.Exit(1)
	}

	runner := server.NewRunner(logger)
	if cfg.Admin.Enabled {
		runner.SetAdmin(admin.New(cfg.Admin, logger, runner.Stats()))
	}
	if err := runner.Run(cfg, handler); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("BURROW_CONFIG")
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func buildHandler(cfg *config.Config, logger *slog.Logger) (server.Handler, error) {
	base, err := dns.NameFromString(cfg.Tunnel.Domain)
	if err != nil {
		return nil, fmt.Errorf("tunnel domain: %w", err)
	}
	answer := net.ParseIP(cfg.Tunnel.AnswerIPv4)

	var files *tunnel.FileStore
	if cfg.Tunnel.FilesDir != "" {
		files, err = tunnel.NewFileStore(cfg.Tunnel.FilesDir)
		if err != nil {
			return nil, err
		}
	}

	obf := tunnel.Obfuscator{Key: cfg.Tunnel.XOR.Key, Signal: cfg.Tunnel.XOR.Signal}
	return tunnel.NewChatHandler(base, answer, obf, files, logger), nil
}
