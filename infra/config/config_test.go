package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PODRANT_SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("PODRANT_SUPABASE_ANON_KEY", "anon")
	t.Setenv("PODRANT_SPOTIFY_CLIENT_ID", "cid")
	t.Setenv("PODRANT_SPOTIFY_CLIENT_SECRET", "secret")
}

func TestLoad_ParsesEnvAndDefaults(t *testing.T) {
	setRequired(t)
	dataDir := t.TempDir()
	t.Setenv("PODRANT_DATA_DIR", dataDir)
	t.Setenv("PODRANT_OAUTH_CALLBACK_PORT", "45146")
	t.Setenv("PODRANT_SPOTIFY_MARKET", "gb")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Supabase.URL != "https://project.supabase.co" {
		t.Fatalf("supabase url must be normalized: %q", cfg.Supabase.URL)
	}
	if cfg.OAuth.CallbackPort != 45146 || cfg.Spotify.Market != "GB" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if cfg.Spotify.APIURL != "https://api.spotify.com/v1" || cfg.Player != "mpv" {
		t.Fatalf("defaults not applied: %#v", cfg)
	}
	if cfg.SessionPath() != filepath.Join(dataDir, "session.json") {
		t.Fatalf("unexpected session path %q", cfg.SessionPath())
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "player = \"ffplay\"\nlog_level = \"debug\"\n\n[storage]\nendpoint = \"s3.local:9000\"\naccess_key = \"ak\"\nsecret_key = \"sk\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv("PODRANT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Player != "ffplay" {
		t.Fatalf("file value not applied: %q", cfg.Player)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("env should override file: %q", cfg.LogLevel)
	}
	if !cfg.StorageEnabled() || cfg.Storage.AvatarBucket != "avatars" {
		t.Fatalf("storage section not merged with defaults: %#v", cfg.Storage)
	}
}

func TestLoad_RejectsNonHTTPS(t *testing.T) {
	setRequired(t)
	t.Setenv("PODRANT_SUPABASE_URL", "http://insecure.local")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for non-https backend")
	}
}

func TestLoad_RequiresProviderCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("PODRANT_SPOTIFY_CLIENT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for missing provider secret")
	}
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"PODRANT_SPOTIFY_CLIENT_ID":   "spotify.client_id",
		"PODRANT_OAUTH_CALLBACK_PORT": "oauth.callback_port",
		"PODRANT_DATA_DIR":            "data_dir",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Fatalf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUIState_LoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ui_state.json")

	st, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("missing state should not error: %v", err)
	}
	if st != (UIState{}) {
		t.Fatalf("expected empty state for missing file")
	}

	want := UIState{View: "feed", GenreID: "comedy", ProfileTab: "likes"}
	if err := SaveUIState(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected loaded state got=%#v want=%#v", got, want)
	}

	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write corrupt state failed: %v", err)
	}
	got, err = LoadUIState(path)
	if err != nil || got != (UIState{}) {
		t.Fatalf("corrupt state should reset silently, got %#v %v", got, err)
	}
}
