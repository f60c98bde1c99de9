// Package service installs `aide run` as a macOS launchd user agent.
package service

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/joho/godotenv"

	"github.com/chris/aide/internal/logger"
)

const Label = "dev.aide.agent"

// Unit describes one launchd agent.
type Unit struct {
	Label   string
	BinPath string
	WorkDir string
	// LogFile is passed to the agent as LOG_FILE so the rotating log
	// receives everything; launchd's own capture only catches crashes.
	LogFile  string
	CrashLog string
}

// Paths resolves where the unit lives for the current user.
type Paths struct {
	Home string
}

func (p Paths) PlistPath() string {
	return filepath.Join(p.Home, "Library", "LaunchAgents", Label+".plist")
}

func (p Paths) LogDir() string {
	return filepath.Join(p.Home, "Library", "Logs", "aide")
}

func (p Paths) DataDir() string {
	return filepath.Join(p.Home, ".aide")
}

func currentPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolving home directory: %w", err)
	}
	return Paths{Home: home}, nil
}

// Install writes the plist for the running binary and loads it.
func Install(out io.Writer) error {
	paths, err := currentPaths()
	if err != nil {
		return err
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return fmt.Errorf("resolving symlinks: %w", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	unit := Unit{
		Label:    Label,
		BinPath:  exe,
		WorkDir:  WorkDir(filepath.Join(wd, ".env"), wd, paths.DataDir()),
		LogFile:  filepath.Join(paths.LogDir(), "aide.log"),
		CrashLog: filepath.Join(paths.LogDir(), "launchd.log"),
	}
	plist, err := RenderPlist(unit)
	if err != nil {
		return fmt.Errorf("generating plist: %w", err)
	}

	for _, dir := range []string{filepath.Dir(paths.PlistPath()), paths.LogDir(), unit.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if _, err := os.Stat(paths.PlistPath()); err == nil {
		_ = launchctl("unload", paths.PlistPath())
	}
	if err := os.WriteFile(paths.PlistPath(), []byte(plist), 0o644); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}
	logger.Info("service: wrote plist", "path", paths.PlistPath(), "workdir", unit.WorkDir)

	if err := launchctl("load", paths.PlistPath()); err != nil {
		return fmt.Errorf("loading plist: %w", err)
	}
	fmt.Fprintf(out, "aide will start on login; logs in %s\n", unit.LogFile)
	return nil
}

// WorkDir picks the agent's working directory. A relative SQLite path in
// envFile only resolves from cwd; anything else runs from dataDir.
func WorkDir(envFile, cwd, dataDir string) string {
	vars, err := godotenv.Read(envFile)
	if err != nil {
		return dataDir
	}
	dsn := vars["DATABASE_URL"]
	if dsn == "" || strings.Contains(dsn, "://") || dsn == ":memory:" || filepath.IsAbs(dsn) {
		return dataDir
	}
	return cwd
}

func Uninstall(out io.Writer) error {
	paths, err := currentPaths()
	if err != nil {
		return err
	}
	if _, err := os.Stat(paths.PlistPath()); err != nil {
		fmt.Fprintln(out, "service is not installed")
		return nil
	}
	if err := launchctl("unload", paths.PlistPath()); err != nil {
		logger.Warn("service: unload failed", "err", err)
	}
	if err := os.Remove(paths.PlistPath()); err != nil {
		return fmt.Errorf("removing plist: %w", err)
	}
	fmt.Fprintf(out, "removed %s\n", paths.PlistPath())
	return nil
}

func Start() error { return launchctl("start", Label) }

func Stop() error { return launchctl("stop", Label) }

func Status(out io.Writer) error {
	cmd := exec.Command("launchctl", "list", Label)
	cmd.Stdout = out
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(out, "service is not loaded")
	}
	return nil
}

func launchctl(args ...string) error {
	cmd := exec.Command("launchctl", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launchctl %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
	}
	return nil
}

var plistTemplate = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{.Label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{.BinPath}}</string>
		<string>run</string>
	</array>
	<key>WorkingDirectory</key>
	<string>{{.WorkDir}}</string>
	<key>EnvironmentVariables</key>
	<dict>
		<key>LOG_FILE</key>
		<string>{{.LogFile}}</string>
	</dict>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardErrorPath</key>
	<string>{{.CrashLog}}</string>
</dict>
</plist>
`))

func RenderPlist(u Unit) (string, error) {
	if u.Label == "" || u.BinPath == "" {
		return "", fmt.Errorf("plist needs a label and a binary path")
	}
	var buf bytes.Buffer
	if err := plistTemplate.Execute(&buf, u); err != nil {
		return "", err
	}
	return buf.String(), nil
}
