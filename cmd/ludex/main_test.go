package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ludex/internal/config"
	"ludex/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(filepath.Dir(cfg.Paths.DataDir), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestCLIScanAndListCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteArchive(t, env.cfg.Paths.LibraryDir, "Celeste (2018).zip", 32)
	testsupport.WriteArchive(t, env.cfg.Paths.LibraryDir, "Factorio (2020) (v1.1).zip", 64)

	out, _, err := runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "created 2")

	out, _, err = runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Celeste")
	requireContains(t, out, "Factorio")

	// Repeat scans mutate nothing.
	out, _, err = runCLI(t, []string{"scan"}, env.configPath)
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	requireContains(t, out, "unchanged 2")
}

func TestCLIListIncludesDeletedWithFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteArchive(t, env.cfg.Paths.LibraryDir, "Valheim (2021) (EA).zip", 16)

	if _, _, err := runCLI(t, []string{"scan"}, env.configPath); err != nil {
		t.Fatalf("scan: %v", err)
	}
	testsupport.RemoveArchive(t, env.cfg.Paths.LibraryDir, "Valheim (2021) (EA).zip")
	if _, _, err := runCLI(t, []string{"scan"}, env.configPath); err != nil {
		t.Fatalf("second scan: %v", err)
	}

	out, _, err := runCLI(t, []string{"list"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "Valheim") {
		t.Fatalf("expected deleted entry to be hidden, got:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"list", "--deleted"}, env.configPath)
	if err != nil {
		t.Fatalf("list --deleted: %v", err)
	}
	requireContains(t, out, "Valheim")
	requireContains(t, out, "deleted")
}

func TestCLIShowCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteArchive(t, env.cfg.Paths.LibraryDir, "Celeste (2018).zip", 32)
	if _, _, err := runCLI(t, []string{"scan"}, env.configPath); err != nil {
		t.Fatalf("scan: %v", err)
	}

	out, _, err := runCLI(t, []string{"show", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Celeste")
	requireContains(t, out, "2018")

	if _, _, err := runCLI(t, []string{"show", "99"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown id")
	}
	if _, _, err := runCLI(t, []string{"show", "abc"}, env.configPath); err == nil {
		t.Fatal("expected error for invalid id")
	}
}

func TestCLIStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Catalog")
	requireContains(t, out, "Database health")
}

func TestCLIConfigShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# loaded from")
	requireContains(t, out, "[paths]")
	requireContains(t, out, env.cfg.Paths.LibraryDir)
}

func TestCLIConfigInit(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}
