package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"

	"github.com/CrestNiraj12/podrant/infra/auth"
	"github.com/CrestNiraj12/podrant/infra/config"
	"github.com/CrestNiraj12/podrant/infra/editor"
	"github.com/CrestNiraj12/podrant/infra/localstore"
	"github.com/CrestNiraj12/podrant/infra/player"
	"github.com/CrestNiraj12/podrant/infra/spotify"
	"github.com/CrestNiraj12/podrant/infra/storage"
	"github.com/CrestNiraj12/podrant/infra/supabase"
	"github.com/CrestNiraj12/podrant/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "podrant: %v\n", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "podrant",
		Usage: "podcasts, episode comments and a social feed in your terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				EnvVars: []string{config.EnvPrefix + "CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug logs",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Start the terminal UI (default)",
				Action: runTUI,
			},
			{
				Name:  "login",
				Usage: "Sign in through the browser, or with --email and a password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "email",
						Usage: "Sign in with `EMAIL` and a password read from stdin or " + config.EnvPrefix + "PASSWORD",
					},
				},
				Action: login,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and forget the stored session",
				Action: logout,
			},
			{
				Name:   "version",
				Usage:  "Print version information",
				Action: printVersion,
			},
		},
	}
}

// setup loads the configuration and points the global logger at the log
// file. The TUI owns stdout, so nothing is logged to the terminal.
func setup(c *cli.Context) (config.Config, func(), error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return config.Config{}, nil, fmt.Errorf("creating data directory: %w", err)
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("opening log file: %w", err)
	}
	zerolog.SetGlobalLevel(logLevel(cfg.LogLevel, c.Bool("debug")))
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return cfg, func() { _ = f.Close() }, nil
}

func logLevel(configured string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(configured)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func runTUI(c *cli.Context) error {
	cfg, closeLog, err := setup(c)
	if err != nil {
		return err
	}
	defer closeLog()

	authClient := auth.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	defer authClient.Close()

	session, err := auth.LoadSession(cfg.SessionPath())
	if err != nil {
		log.Warn().Err(err).Msg("ignoring unreadable session")
		session = auth.Session{}
	}
	if session.AccessToken == "" {
		log.Info().Msg("starting signed out")
	}
	tokens := auth.NewSessionTokenProvider(session, cfg.SessionPath(), authClient)

	db := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, tokens)
	defer db.Close()

	var images supabase.ImageStore
	if cfg.StorageEnabled() {
		store, err := storage.New(storage.Options{
			Endpoint:     cfg.Storage.Endpoint,
			AccessKey:    cfg.Storage.AccessKey,
			SecretKey:    cfg.Storage.SecretKey,
			UseSSL:       cfg.Storage.UseSSL,
			AvatarBucket: cfg.Storage.AvatarBucket,
			BannerBucket: cfg.Storage.BannerBucket,
			PublicURL:    cfg.Storage.PublicURL,
		})
		if err != nil {
			return err
		}
		images = store
	}

	provider := spotify.NewClient(spotify.Options{
		APIURL:       cfg.Spotify.APIURL,
		AccountsURL:  cfg.Spotify.AccountsURL,
		ClientID:     cfg.Spotify.ClientID,
		ClientSecret: cfg.Spotify.ClientSecret,
		Market:       cfg.Spotify.Market,
		RatePerSec:   cfg.Spotify.RatePerSec,
		Burst:        cfg.Spotify.Burst,
	})
	defer provider.Close()

	library, err := localstore.Open(cfg.LibraryPath())
	if err != nil {
		return fmt.Errorf("opening library: %w", err)
	}

	state, err := config.LoadUIState(cfg.StatePath())
	if err != nil {
		log.Warn().Err(err).Msg("ignoring ui state")
	}

	root := tui.NewApp(tui.Deps{
		Podcasts:  provider,
		Comments:  supabase.NewCommentService(db),
		Posts:     supabase.NewPostService(db),
		Accounts:  supabase.NewAccountService(db, images),
		Library:   library,
		Player:    player.New(cfg.Player),
		Editor:    editor.NewEnvEditor(),
		State:     state,
		StatePath: cfg.StatePath(),
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}

func login(c *cli.Context) error {
	cfg, closeLog, err := setup(c)
	if err != nil {
		return err
	}
	defer closeLog()

	client := auth.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var s auth.Session
	if email := c.String("email"); email != "" {
		password := os.Getenv(config.EnvPrefix + "PASSWORD")
		if password == "" {
			fmt.Fprint(c.App.Writer, "Password: ")
			if password, err = readLine(os.Stdin); err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
		}
		s, err = client.SignInWithPassword(ctx, email, password)
		if err == nil {
			err = auth.SaveSession(cfg.SessionPath(), s)
		}
	} else {
		s, err = auth.EnsureLogin(ctx, client, auth.LoginOptions{
			SessionPath:  cfg.SessionPath(),
			Provider:     cfg.OAuth.Provider,
			CallbackPort: cfg.OAuth.CallbackPort,
		})
	}
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Signed in as %s.\n", lo.Ternary(s.Email != "", s.Email, s.UserID))
	return nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func logout(c *cli.Context) error {
	cfg, closeLog, err := setup(c)
	if err != nil {
		return err
	}
	defer closeLog()

	session, err := auth.LoadSession(cfg.SessionPath())
	if err != nil {
		log.Warn().Err(err).Msg("reading session for sign-out")
	}
	if session.AccessToken != "" {
		client := auth.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey)
		defer client.Close()
		if err := client.SignOut(c.Context, session.AccessToken); err != nil {
			// The local session is removed either way.
			log.Warn().Err(err).Msg("server sign-out failed")
		}
	}
	if err := auth.ClearSession(cfg.SessionPath()); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "Signed out.")
	return nil
}

func printVersion(c *cli.Context) error {
	v, cm, d := resolvedRuntimeVersionInfo(version, commit, date)
	fmt.Fprintf(c.App.Writer, "podrant %s\ncommit: %s\nbuilt: %s\n", v, cm, d)
	return nil
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}
