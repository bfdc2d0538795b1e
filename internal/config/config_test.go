package config

import (
	"testing"

	"github.com/eldtechnologies/relaycast/internal/hub"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "")
	t.Setenv("BUFFER_CAP", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("CHANNEL_ROUTES", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.BufferCap != hub.DefaultCap {
		t.Errorf("expected default buffer cap %d, got %d", hub.DefaultCap, cfg.BufferCap)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("expected wildcard origin, got %v", cfg.AllowedOrigins)
	}
	if len(cfg.ChannelRoutes) != 0 {
		t.Errorf("expected no channel routes, got %v", cfg.ChannelRoutes)
	}
}

func TestLoadParsesLists(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("BUFFER_CAP", "5")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CHANNEL_ROUTES", "Alpha=ticker, News=feed, malformed")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 192.168.0.0/16")

	cfg := Load()

	if cfg.BufferCap != 5 {
		t.Errorf("expected buffer cap 5, got %d", cfg.BufferCap)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if len(cfg.ChannelRoutes) != 2 || cfg.ChannelRoutes["Alpha"] != "ticker" || cfg.ChannelRoutes["News"] != "feed" {
		t.Errorf("unexpected routes %v", cfg.ChannelRoutes)
	}
	if len(cfg.RateLimitWhitelist) != 2 {
		t.Errorf("unexpected whitelist %v", cfg.RateLimitWhitelist)
	}
}

func TestLoadIgnoresInvalidBufferCap(t *testing.T) {
	t.Setenv("ENV", "test")
	for _, bad := range []string{"zero", "-3", "0"} {
		t.Setenv("BUFFER_CAP", bad)
		if cfg := Load(); cfg.BufferCap != hub.DefaultCap {
			t.Errorf("BUFFER_CAP=%q: expected fallback %d, got %d", bad, hub.DefaultCap, cfg.BufferCap)
		}
	}
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("BOT_SECRET", "")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic without BOT_SECRET in production")
		}
	}()
	Load()
}
