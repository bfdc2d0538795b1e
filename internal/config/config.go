package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/eldtechnologies/relaycast/internal/hub"
)

// Config holds all configuration for the relay server.
type Config struct {
	Port string
	Env  string

	// BotSecret authenticates the ingest endpoint (X-Bot-Secret header).
	BotSecret string

	// RedisURL enables the rate limiter when set; the relay itself keeps no
	// durable state.
	RedisURL string

	// AllowedOrigins for CORS; defaults to any origin.
	AllowedOrigins []string

	// BufferCap is the per-channel message buffer size.
	BufferCap int

	// ChannelRoutes maps channel names to display-variant hints surfaced on
	// the channels endpoint. Purely advisory for the display client.
	ChannelRoutes map[string]string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled   bool     // Enable auto-blocking after repeated violations
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		BotSecret:        os.Getenv("BOT_SECRET"),
		RedisURL:         os.Getenv("REDIS_URL"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
		BufferCap:        getEnvInt("BUFFER_CAP", hub.DefaultCap),
		ChannelRoutes:    parsePairs(os.Getenv("CHANNEL_ROUTES")),
		AutoBlockEnabled: getEnv("AUTO_BLOCK_ENABLED", "false") == "true",
	}

	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		cfg.RateLimitWhitelist = splitList(whitelist)
	}

	// In production, refuse to start without an ingest secret; otherwise
	// every ingest call would be rejected anyway.
	if cfg.Env == "production" && cfg.BotSecret == "" {
		panic("BOT_SECRET is required in production")
	}

	return cfg
}

// ForwarderConfig holds configuration for the chat-listener forwarder.
type ForwarderConfig struct {
	DiscordToken string
	// Channels maps upstream channel ids to the relay channel names they are
	// published under.
	Channels  map[string]string
	IngestURL string
	BotSecret string
	// FetchLimit is how many recent messages to forward per channel at
	// startup; kept equal to the server's buffer cap.
	FetchLimit int
}

// LoadForwarder reads the forwarder's configuration. DISCORD_TOKEN and
// DISCORD_CHANNELS are always required.
func LoadForwarder() *ForwarderConfig {
	_ = godotenv.Load()

	cfg := &ForwarderConfig{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		Channels:     parsePairs(os.Getenv("DISCORD_CHANNELS")),
		IngestURL:    getEnv("INGEST_URL", "http://localhost:8080/api/messages"),
		BotSecret:    os.Getenv("BOT_SECRET"),
		FetchLimit:   getEnvInt("BUFFER_CAP", hub.DefaultCap),
	}

	if cfg.DiscordToken == "" {
		panic("DISCORD_TOKEN is required")
	}
	if len(cfg.Channels) == 0 {
		panic("DISCORD_CHANNELS is required (format: id=name,id=name)")
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

// parsePairs parses "key=value,key=value" into a map, ignoring malformed
// entries.
func parsePairs(raw string) map[string]string {
	pairs := make(map[string]string)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, value, ok := strings.Cut(entry, "=")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			continue
		}
		pairs[key] = value
	}
	return pairs
}
