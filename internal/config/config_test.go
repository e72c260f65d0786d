package config

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_CONFIG_KEY", "from-env")
	if got := getEnv("TEST_CONFIG_KEY", "fallback"); got != "from-env" {
		t.Errorf("got %q, want from-env", got)
	}
	if got := getEnv("TEST_CONFIG_MISSING", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("TEST_CONFIG_DUR", "30m")
	if got := getDuration("TEST_CONFIG_DUR", time.Hour); got != 30*time.Minute {
		t.Errorf("got %v, want 30m", got)
	}

	t.Setenv("TEST_CONFIG_DUR", "bogus")
	if got := getDuration("TEST_CONFIG_DUR", time.Hour); got != time.Hour {
		t.Errorf("invalid value: got %v, want fallback 1h", got)
	}

	t.Setenv("TEST_CONFIG_DUR", "-5m")
	if got := getDuration("TEST_CONFIG_DUR", time.Hour); got != time.Hour {
		t.Errorf("negative value: got %v, want fallback 1h", got)
	}
}

func TestGetList(t *testing.T) {
	t.Setenv("TEST_CONFIG_LIST", "/a, /b ,,/c")
	got := getList("TEST_CONFIG_LIST", "")
	want := []string{"/a", "/b", "/c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("jwt expiry = %v, want 24h", cfg.JWTExpiry)
	}
	if len(cfg.AuthSkipPaths) == 0 {
		t.Error("expected default auth skip paths")
	}
}
