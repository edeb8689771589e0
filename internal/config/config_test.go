package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "99")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Bot.Token != "123:abc" || cfg.Bot.AdminID != 99 {
		t.Fatalf("bot config = %+v", cfg.Bot)
	}
	if cfg.Bot.APIBaseURL != "https://api.telegram.org" {
		t.Fatalf("APIBaseURL = %q", cfg.Bot.APIBaseURL)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("Addr = %q", cfg.App.Addr())
	}
	if cfg.SQLite.Path != "data/support-bot.db" {
		t.Fatalf("sqlite path = %q", cfg.SQLite.Path)
	}

	lc := cfg.Lifecycle
	if lc.TicketCooldown != 60*time.Second ||
		lc.CallCooldown != 60*time.Second ||
		lc.TicketWindow != 600*time.Second ||
		lc.MaxTicketsPerWindow != 3 ||
		lc.TicketTTL != 1800*time.Second ||
		lc.RemindAfter != 300*time.Second ||
		lc.RemindEvery != 600*time.Second ||
		lc.SweepInterval != 60*time.Second ||
		lc.OpenListLimit != 200 {
		t.Fatalf("lifecycle defaults = %+v", lc)
	}
}

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("ADMIN_ID", "99")

	if _, err := Load(); err == nil {
		t.Fatalf("Load succeeded without BOT_TOKEN")
	}
}

func TestLoadRequiresAdminID(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "")

	if _, err := Load(); err == nil {
		t.Fatalf("Load succeeded without ADMIN_ID")
	}
}

func TestLoadRejectsMalformedAdminID(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "not-a-number")

	if _, err := Load(); err == nil {
		t.Fatalf("Load accepted a malformed ADMIN_ID")
	}
}

func TestLifecycleOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TICKET_COOLDOWN_SECONDS", "5")
	t.Setenv("TICKET_MAX_PER_WINDOW", "10")
	t.Setenv("TICKET_TTL_SECONDS", "120")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lifecycle.TicketCooldown != 5*time.Second {
		t.Fatalf("TicketCooldown = %v", cfg.Lifecycle.TicketCooldown)
	}
	if cfg.Lifecycle.MaxTicketsPerWindow != 10 {
		t.Fatalf("MaxTicketsPerWindow = %d", cfg.Lifecycle.MaxTicketsPerWindow)
	}
	if cfg.Lifecycle.TicketTTL != 120*time.Second {
		t.Fatalf("TicketTTL = %v", cfg.Lifecycle.TicketTTL)
	}
}

func TestUnparsableOverrideFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TICKET_COOLDOWN_SECONDS", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lifecycle.TicketCooldown != 60*time.Second {
		t.Fatalf("TicketCooldown = %v, want default", cfg.Lifecycle.TicketCooldown)
	}
}
