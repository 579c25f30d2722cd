package main

import (
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

const (
	modeHTTP  = "http"
	modeStdio = "stdio"
)

type config struct {
	Addr         string
	Mode         string
	Rate         float64 // requests per second; 0 disables limiting
	Burst        int
	MaxBodyBytes int64
	LogLevel     slog.Level
}

// loadConfig parses flags; SYMENGINE_* environment variables supply the
// defaults, so an explicit flag always wins.
func loadConfig(args []string, getenv func(string) string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("mcp-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", envString(getenv, "SYMENGINE_ADDR", ":8080"), "HTTP listen address")
	fs.StringVar(&cfg.Mode, "mode", envString(getenv, "SYMENGINE_MODE", modeHTTP), "transport: http or stdio")
	fs.Float64Var(&cfg.Rate, "rate", envFloat(getenv, "SYMENGINE_RATE", 20), "requests per second (0 = unlimited)")
	fs.IntVar(&cfg.Burst, "burst", envInt(getenv, "SYMENGINE_BURST", 40), "rate limiter burst")
	fs.Int64Var(&cfg.MaxBodyBytes, "max-body", int64(envInt(getenv, "SYMENGINE_MAX_BODY", 1<<20)), "maximum request body in bytes")
	level := fs.String("log-level", envString(getenv, "SYMENGINE_LOG_LEVEL", "info"), "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(*level)); err != nil {
		return config{}, fmt.Errorf("invalid log level %q", *level)
	}
	switch cfg.Mode {
	case modeHTTP, modeStdio:
	default:
		return config{}, fmt.Errorf("invalid mode %q: want %s or %s", cfg.Mode, modeHTTP, modeStdio)
	}
	if cfg.Rate < 0 || cfg.Burst < 1 {
		return config{}, fmt.Errorf("rate must be >= 0 and burst >= 1")
	}
	if cfg.MaxBodyBytes <= 0 {
		return config{}, fmt.Errorf("max-body must be positive")
	}
	return cfg, nil
}

func envString(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(getenv func(string) string, key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(getenv func(string) string, key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(getenv(key)), 64)
	if err != nil {
		return fallback
	}
	return v
}
