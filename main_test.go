package main

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestResolveVersionInfo(t *testing.T) {
	tests := []struct {
		name          string
		v, c, d       string
		moduleVersion string
		settings      map[string]string
		want          [3]string
	}{
		{
			name:          "ldflags win",
			v:             "v1.2.0",
			c:             "abc",
			d:             "2026-01-01",
			moduleVersion: "v9.9.9",
			settings:      map[string]string{"vcs.revision": "ffff", "vcs.time": "x"},
			want:          [3]string{"v1.2.0", "abc", "2026-01-01"},
		},
		{
			name:          "module version and vcs fill defaults",
			v:             "dev",
			c:             "none",
			d:             "unknown",
			moduleVersion: "v0.3.1",
			settings:      map[string]string{"vcs.revision": "0123456789abcdef", "vcs.time": "2026-10-01T10:00:00Z"},
			want:          [3]string{"v0.3.1", "0123456789ab", "2026-10-01T10:00:00Z"},
		},
		{
			name:          "devel build keeps dev",
			v:             "dev",
			c:             "none",
			d:             "unknown",
			moduleVersion: "(devel)",
			want:          [3]string{"dev", "none", "unknown"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v, c, d := resolveVersionInfo(tc.v, tc.c, tc.d, tc.moduleVersion, tc.settings)
			if got := [3]string{v, c, d}; got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestBuildSettingsMap(t *testing.T) {
	m := buildSettingsMap([]debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}, {Key: "GOOS", Value: "linux"}})
	if m["vcs.revision"] != "abc" || m["GOOS"] != "linux" || len(m) != 2 {
		t.Fatalf("unexpected map %v", m)
	}
}

func TestVersionCommand(t *testing.T) {
	app := newCLI()
	var out bytes.Buffer
	app.Writer = &out
	if err := app.Run([]string{"podrant", "version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "podrant ") || !strings.Contains(out.String(), "commit: ") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestCommands(t *testing.T) {
	app := newCLI()
	for _, name := range []string{"run", "login", "logout", "version"} {
		if app.Command(name) == nil {
			t.Fatalf("missing command %q", name)
		}
	}
	if app.Action == nil {
		t.Fatal("running without a command should start the ui")
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		configured string
		debug      bool
		want       zerolog.Level
	}{
		{"", false, zerolog.InfoLevel},
		{"WARN", false, zerolog.WarnLevel},
		{" error ", false, zerolog.ErrorLevel},
		{"loud", false, zerolog.InfoLevel},
		{"error", true, zerolog.DebugLevel},
	}
	for _, tc := range tests {
		if got := logLevel(tc.configured, tc.debug); got != tc.want {
			t.Fatalf("logLevel(%q, %v) = %v, want %v", tc.configured, tc.debug, got, tc.want)
		}
	}
}

func TestReadLine(t *testing.T) {
	tests := map[string]string{
		"secret\n":   "secret",
		"secret\r\n": "secret",
		"no newline": "no newline",
		"":           "",
	}
	for in, want := range tests {
		got, err := readLine(strings.NewReader(in))
		if err != nil {
			t.Fatalf("readLine(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("readLine(%q) = %q, want %q", in, got, want)
		}
	}
}
