// Package config defines the bot configuration: a JSON5 file overlaid with
// environment variables.
package config

import "time"

// Config is the root configuration for the reorder bot.
type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Reorder   ReorderConfig   `json:"reorder"`
	Telemetry TelemetryConfig `json:"telemetry,omitempty"`
}

// TelegramConfig configures the Bot API connection.
type TelegramConfig struct {
	Token string `json:"token,omitempty"` // usually from env REORDERBOT_TELEGRAM_TOKEN; stripped before saving
	Proxy string `json:"proxy,omitempty"` // optional HTTP proxy for api.telegram.org
}

// ReorderConfig tunes the media-group pipeline. Values are Go duration
// strings; empty or invalid values fall back to the defaults.
type ReorderConfig struct {
	GroupDebounce   string `json:"group_debounce,omitempty"`   // quiet period before a media group finalizes (default "700ms")
	SessionTTL      string `json:"session_ttl,omitempty"`      // reorder session lifetime (default "120s")
	JanitorInterval string `json:"janitor_interval,omitempty"` // stale-buffer sweep interval (default "30s")
	GroupMaxAge     string `json:"group_max_age,omitempty"`    // buffer age the janitor evicts at (default "30s")
	WarnCooldown    string `json:"warn_cooldown,omitempty"`    // minimum gap between fallback warnings per user (default "1.5s")
}

// TelemetryConfig configures OpenTelemetry trace export. When enabled,
// spans are exported to an OTLP-compatible backend.
type TelemetryConfig struct {
	Enabled     bool              `json:"enabled,omitempty"`
	Endpoint    string            `json:"endpoint,omitempty"`     // OTLP endpoint (default "localhost:4317")
	Protocol    string            `json:"protocol,omitempty"`     // "grpc" (default) or "http"
	Insecure    bool              `json:"insecure,omitempty"`     // plaintext export for local collectors
	ServiceName string            `json:"service_name,omitempty"` // default "reorderbot"
	Headers     map[string]string `json:"headers,omitempty"`      // extra exporter headers (e.g. auth)
}

// Timings are the parsed ReorderConfig durations.
type Timings struct {
	GroupDebounce   time.Duration
	SessionTTL      time.Duration
	JanitorInterval time.Duration
	GroupMaxAge     time.Duration
	WarnCooldown    time.Duration
}

// DefaultTimings returns the stock pipeline timings.
func DefaultTimings() Timings {
	return Timings{
		GroupDebounce:   700 * time.Millisecond,
		SessionTTL:      120 * time.Second,
		JanitorInterval: 30 * time.Second,
		GroupMaxAge:     30 * time.Second,
		WarnCooldown:    1500 * time.Millisecond,
	}
}

// Timings parses the configured duration strings, falling back to the
// defaults for empty, invalid, or non-positive values.
func (rc ReorderConfig) Timings() Timings {
	t := DefaultTimings()
	parse := func(raw string, dst *time.Duration) {
		if raw == "" {
			return
		}
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			*dst = d
		}
	}
	parse(rc.GroupDebounce, &t.GroupDebounce)
	parse(rc.SessionTTL, &t.SessionTTL)
	parse(rc.JanitorInterval, &t.JanitorInterval)
	parse(rc.GroupMaxAge, &t.GroupMaxAge)
	parse(rc.WarnCooldown, &t.WarnCooldown)
	return t
}
