package main

import (
	"log/slog"
	"testing"
)

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(nil, env(nil))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.Mode != modeHTTP || cfg.LogLevel != slog.LevelInfo {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfig_EnvThenFlags(t *testing.T) {
	e := env(map[string]string{"SYMENGINE_ADDR": ":9000", "SYMENGINE_MODE": "stdio", "SYMENGINE_LOG_LEVEL": "debug"})
	cfg, err := loadConfig(nil, e)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" || cfg.Mode != modeStdio || cfg.LogLevel != slog.LevelDebug {
		t.Errorf("env not applied: %+v", cfg)
	}
	cfg, err = loadConfig([]string{"-addr", ":7000", "-mode", "http"}, e)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" || cfg.Mode != modeHTTP {
		t.Errorf("flags should override env: %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"-mode", "grpc"},
		{"-log-level", "loud"},
		{"-burst", "0"},
		{"-max-body", "0"},
	} {
		if _, err := loadConfig(args, env(nil)); err == nil {
			t.Errorf("%v: want error", args)
		}
	}
}
