package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"baldr/internal/config"
	"baldr/internal/testsupport"
)

const (
	eliseUUID    = "c262fe9b-c705-43fd-a5d4-4bb38178d9e7"
	portraitUUID = "0f9d1c5e-7b8a-4c1d-9e2f-3a4b5c6d7e8f"
	scoreUUID    = "5a0c2f1e-8d3b-4e6a-9c7d-1b2e3f4a5b6c"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedFFprobe(120)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	media := cfg.Paths.MediaDir
	testsupport.WriteDeclaration(t, media, "musik/Fuer-Elise.mp3", strings.Join([]string{
		"ref: Fuer-Elise",
		"uuid: " + eliseUUID,
		"title: Für Elise",
		"composer: Ludwig van Beethoven",
		"cover: ref:Portrait",
		"samples:",
		"  - ref: intro",
		"    title: Einleitung",
		"    startTime: 0",
		"    duration: 0.3",
		"    fadeIn: 0.05",
		"    fadeOut: 0.05",
		"  - ref: theme",
		"    startTime: 1:00",
		"    endTime: 1:30",
		"",
	}, "\n"))
	testsupport.WriteDeclaration(t, media, "bilder/Portrait.jpg", "ref: Portrait\nuuid: "+portraitUUID+"\ntitle: Beethoven\n")
	testsupport.WriteDeclaration(t, media, "noten/Score.png", "ref: Score\nuuid: "+scoreUUID+"\nmultiPartCount: 5\n")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
