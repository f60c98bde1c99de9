package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderPlist(t *testing.T) {
	got, err := RenderPlist(Unit{
		Label:    Label,
		BinPath:  "/usr/local/bin/aide",
		WorkDir:  "/Users/me/.aide",
		LogFile:  "/Users/me/Library/Logs/aide/aide.log",
		CrashLog: "/Users/me/Library/Logs/aide/launchd.log",
	})
	if err != nil {
		t.Fatalf("RenderPlist: %v", err)
	}
	for _, want := range []string{
		"<string>dev.aide.agent</string>",
		"<string>/usr/local/bin/aide</string>\n\t\t<string>run</string>",
		"<key>LOG_FILE</key>\n\t\t<string>/Users/me/Library/Logs/aide/aide.log</string>",
		"<string>/Users/me/.aide</string>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("plist missing %q\n%s", want, got)
		}
	}
}

func TestRenderPlistRequiresBinary(t *testing.T) {
	if _, err := RenderPlist(Unit{Label: Label}); err == nil {
		t.Fatal("expected error without a binary path")
	}
}

func TestWorkDir(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		env  string
		want string
	}{
		{"relative sqlite", "DATABASE_URL=./data/assistant.db\n", "cwd"},
		{"absolute sqlite", "DATABASE_URL=/var/lib/aide.db\n", "data"},
		{"postgres", "DATABASE_URL=postgres://aide@localhost/aide\n", "data"},
		{"unset", "LOG_LEVEL=debug\n", "data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envFile := filepath.Join(dir, tt.name+".env")
			if err := os.WriteFile(envFile, []byte(tt.env), 0o600); err != nil {
				t.Fatal(err)
			}
			if got := WorkDir(envFile, "cwd", "data"); got != tt.want {
				t.Errorf("WorkDir = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkDirMissingEnvFile(t *testing.T) {
	if got := WorkDir(filepath.Join(t.TempDir(), "nope.env"), "cwd", "data"); got != "data" {
		t.Errorf("WorkDir = %q, want data", got)
	}
}

func TestPaths(t *testing.T) {
	p := Paths{Home: "/Users/me"}
	if got := p.PlistPath(); got != "/Users/me/Library/LaunchAgents/dev.aide.agent.plist" {
		t.Errorf("PlistPath = %q", got)
	}
	if got := p.DataDir(); got != "/Users/me/.aide" {
		t.Errorf("DataDir = %q", got)
	}
}
