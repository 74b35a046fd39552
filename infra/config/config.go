package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. PODRANT_SUPABASE_URL.
const EnvPrefix = "PODRANT_"

// SpotifyConfig configures the podcast metadata provider.
type SpotifyConfig struct {
	ClientID     string  `koanf:"client_id"`
	ClientSecret string  `koanf:"client_secret"`
	APIURL       string  `koanf:"api_url"`
	AccountsURL  string  `koanf:"accounts_url"`
	Market       string  `koanf:"market"`
	RatePerSec   float64 `koanf:"rate_per_sec"`
	Burst        int     `koanf:"burst"`
}

// SupabaseConfig configures the backend-as-a-service project.
type SupabaseConfig struct {
	URL     string `koanf:"url"`
	AnonKey string `koanf:"anon_key"`
}

// StorageConfig configures the S3-compatible bucket store for profile images.
type StorageConfig struct {
	Endpoint     string `koanf:"endpoint"`
	AccessKey    string `koanf:"access_key"`
	SecretKey    string `koanf:"secret_key"`
	UseSSL       bool   `koanf:"use_ssl"`
	AvatarBucket string `koanf:"avatar_bucket"`
	BannerBucket string `koanf:"banner_bucket"`
	PublicURL    string `koanf:"public_url"` // Base for public object URLs
}

// OAuthConfig configures browser sign-in.
type OAuthConfig struct {
	Provider     string `koanf:"provider"`
	CallbackPort int    `koanf:"callback_port"`
}

// Config holds application-level configuration.
type Config struct {
	Spotify  SpotifyConfig  `koanf:"spotify"`
	Supabase SupabaseConfig `koanf:"supabase"`
	Storage  StorageConfig  `koanf:"storage"`
	OAuth    OAuthConfig    `koanf:"oauth"`
	DataDir  string         `koanf:"data_dir"`
	Player   string         `koanf:"player"`
	LogLevel string         `koanf:"log_level"`
}

var sections = []string{"spotify", "supabase", "storage", "oauth"}

func defaults(home string) map[string]any {
	return map[string]any{
		"spotify.api_url":       "https://api.spotify.com/v1",
		"spotify.accounts_url":  "https://accounts.spotify.com",
		"spotify.market":        "US",
		"spotify.rate_per_sec":  5.0,
		"spotify.burst":         5,
		"storage.avatar_bucket": "avatars",
		"storage.banner_bucket": "banners",
		"storage.use_ssl":       true,
		"oauth.provider":        "github",
		"oauth.callback_port":   45145,
		"data_dir":              filepath.Join(home, ".config", "podrant"),
		"player":                "mpv",
		"log_level":             "info",
	}
}

// Load layers defaults, an optional TOML file and PODRANT_* environment
// variables. A .env file in the working directory is read first.
// With an empty path, <data_dir>/config.toml is used when it exists.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(home), "."), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = filepath.Join(k.String("data_dir"), "config.toml")
		if override := os.Getenv(EnvPrefix + "DATA_DIR"); override != "" {
			path = filepath.Join(override, "config.toml")
		}
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envKey maps PODRANT_SPOTIFY_CLIENT_ID to spotify.client_id.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

func (c *Config) validate() error {
	base, err := httpsURL(c.Supabase.URL)
	if err != nil {
		return fmt.Errorf("invalid %sSUPABASE_URL: %w", EnvPrefix, err)
	}
	c.Supabase.URL = base
	if strings.TrimSpace(c.Supabase.AnonKey) == "" {
		return fmt.Errorf("missing %sSUPABASE_ANON_KEY", EnvPrefix)
	}
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return fmt.Errorf("missing %sSPOTIFY_CLIENT_ID or %sSPOTIFY_CLIENT_SECRET", EnvPrefix, EnvPrefix)
	}
	c.Spotify.APIURL = strings.TrimRight(c.Spotify.APIURL, "/")
	c.Spotify.AccountsURL = strings.TrimRight(c.Spotify.AccountsURL, "/")
	c.Spotify.Market = strings.ToUpper(c.Spotify.Market)
	if c.OAuth.CallbackPort <= 0 || c.OAuth.CallbackPort > 65535 {
		return fmt.Errorf("invalid %sOAUTH_CALLBACK_PORT: %d", EnvPrefix, c.OAuth.CallbackPort)
	}
	return nil
}

func httpsURL(raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("must be an absolute URL")
	}
	if parsed.Scheme != "https" {
		return "", errors.New("only https is allowed")
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

// StorageEnabled reports whether profile image uploads are configured.
func (c Config) StorageEnabled() bool {
	return c.Storage.Endpoint != "" && c.Storage.AccessKey != "" && c.Storage.SecretKey != ""
}

func (c Config) SessionPath() string { return filepath.Join(c.DataDir, "session.json") }
func (c Config) StatePath() string   { return filepath.Join(c.DataDir, "ui_state.json") }
func (c Config) LibraryPath() string { return filepath.Join(c.DataDir, "library.json") }
func (c Config) LogPath() string     { return filepath.Join(c.DataDir, "podrant.log") }
