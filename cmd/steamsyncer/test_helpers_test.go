package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"steamsyncer/internal/testsupport"
)

type cliTestEnv struct {
	install    testsupport.SteamInstall
	library    string
	configPath string
}

// setupCLITestEnv writes a config under a temp HOME pointing at a fake Steam
// install (user 777) and a library holding Alpha/Alpha.exe plus an installer.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("STEAMGRIDDB_API_KEY", "")

	install := testsupport.NewSteamInstall(t, 777)
	library := filepath.Join(t.TempDir(), "games")
	testsupport.WriteFile(t, filepath.Join(library, "Alpha", "Alpha.exe"), 2048)
	testsupport.WriteFile(t, filepath.Join(library, "Alpha", "Setup.exe"), 4096)

	cfg := testsupport.NewConfig(t,
		testsupport.WithScanFolders(library),
		testsupport.WithSteamInstall(install.Root, install.UserID),
	)
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(home, ".config", "steamsyncer", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{install: install, library: library, configPath: configPath}
}

// runCLI executes the root command and returns captured stdout and stderr.
func runCLI(t *testing.T, args []string, configPath string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	root := newRootCommand()
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
