package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/titanous/json5"
)

// Default returns a Config with the stock settings. The token always comes
// from the environment or the config file.
func Default() *Config {
	return &Config{
		Reorder: ReorderConfig{
			GroupDebounce:   "700ms",
			SessionTTL:      "120s",
			JanitorInterval: "30s",
			GroupMaxAge:     "30s",
			WarnCooldown:    "1.5s",
		},
		Telemetry: TelemetryConfig{
			Protocol:    "grpc",
			ServiceName: "reorderbot",
		},
	}
}

// Load reads config from a JSON5 file, then overlays env vars. A missing
// file is not an error; env vars alone can configure the bot.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json5.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides overlays env vars onto the config. Env vars take
// precedence over file values.
func (c *Config) applyEnvOverrides() {
	envStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	envBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			*dst = v == "true" || v == "1"
		}
	}

	envStr("REORDERBOT_TELEGRAM_TOKEN", &c.Telegram.Token)
	envStr("REORDERBOT_TELEGRAM_PROXY", &c.Telegram.Proxy)

	envBool("REORDERBOT_TELEMETRY_ENABLED", &c.Telemetry.Enabled)
	envStr("REORDERBOT_TELEMETRY_ENDPOINT", &c.Telemetry.Endpoint)
	envStr("REORDERBOT_TELEMETRY_PROTOCOL", &c.Telemetry.Protocol)
	envBool("REORDERBOT_TELEMETRY_INSECURE", &c.Telemetry.Insecure)
	envStr("REORDERBOT_TELEMETRY_SERVICE_NAME", &c.Telemetry.ServiceName)
}

// Save writes the config to disk, creating parent directories as needed.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// StripSecrets zeros secret fields so they never persist in the config
// file; the token belongs in the environment (.env.local).
func (c *Config) StripSecrets() {
	c.Telegram.Token = ""
}
