package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"baldr/internal/catalog"
	"baldr/internal/testsupport"
)

func TestResolveFollowsLinks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"resolve", "ref:Fuer-Elise"}, env.configPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	requireContains(t, out, "ref:Fuer-Elise")
	requireContains(t, out, "ref:Portrait")
	requireContains(t, out, "i 1")
	if strings.Contains(out, "ref:Score") {
		t.Fatalf("unlinked asset resolved:\n%s", out)
	}
}

func TestResolveJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "resolve", "uuid:" + eliseUUID}, env.configPath)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var records []catalog.AssetRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(records))
	}
	elise := records[0]
	if elise.Ref != "ref:Fuer-Elise" || elise.Kind != "audio" {
		t.Fatalf("unexpected first record %+v", elise)
	}
	if elise.HTTPURL != "http://media.test/media/musik/Fuer-Elise.mp3" {
		t.Fatalf("HTTPURL = %q", elise.HTTPURL)
	}
	if len(elise.Samples) != 3 || elise.Samples[0].Name != "complete" || elise.Samples[1].Shortcut != "a 2" {
		t.Fatalf("unexpected samples %+v", elise.Samples)
	}
}

func TestResolveUnknownAddress(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"resolve", "ref:Missing"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown address")
	}
	if _, _, err := runCLI(t, []string{"resolve", "no-scheme"}, env.configPath); err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestSamplesCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"samples", "ref:Fuer-Elise"}, env.configPath)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}
	requireContains(t, out, "ref:Fuer-Elise#intro")
	requireContains(t, out, "Einleitung")
	requireContains(t, out, "ref:Fuer-Elise#theme")
	requireContains(t, out, "1:00")
	requireContains(t, out, "0:30")

	if _, _, err := runCLI(t, []string{"samples", "ref:Portrait"}, env.configPath); err == nil {
		t.Fatal("expected error for image asset")
	}
}

func TestSelectionCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"selection", "ref:Score#2-3,5"}, env.configPath)
	if err != nil {
		t.Fatalf("selection: %v", err)
	}
	requireContains(t, out, "ref:Score#2-3,5 (3 of 5 parts)")
	requireContains(t, out, "http://media.test/media/noten/Score_no002.png")
	requireContains(t, out, "http://media.test/media/noten/Score_no005.png")

	out, _, err = runCLI(t, []string{"--json", "selection", "ref:Score#4"}, env.configPath)
	if err != nil {
		t.Fatalf("selection json: %v", err)
	}
	var view selectionView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(view.Parts) != 1 || view.Parts[0].Part != 4 || view.UUIDURI != "uuid:"+scoreUUID+"#4" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestSelectionCommandErrors(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"selection", "ref:Score"}, env.configPath); err == nil {
		t.Fatal("expected error without selection fragment")
	}
	if _, _, err := runCLI(t, []string{"selection", "ref:Score#6"}, env.configPath); err == nil {
		t.Fatal("expected error for part beyond count")
	}
}

func TestPlayRunsThroughFades(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"play", "ref:Fuer-Elise#intro", "--volume", "0.5"}, env.configPath)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	requireContains(t, out, "Playing Einleitung (Für Elise) [ref:Fuer-Elise#intro]")
	for _, evt := range []string{"fadeinbegin", "fadeinend", "fadeoutbegin", "fadeoutend"} {
		requireContains(t, out, evt)
	}
	requireContains(t, out, "Finished at")
}

func TestPlayRejectsInvalidFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"play", "ref:Fuer-Elise#intro", "--volume", "2"}, env.configPath); err == nil {
		t.Fatal("expected volume error")
	}
	if _, _, err := runCLI(t, []string{"play", "ref:Fuer-Elise#missing"}, env.configPath); err == nil {
		t.Fatal("expected unknown sample error")
	}
}

func TestExportAndCatalogList(t *testing.T) {
	env := setupCLITestEnv(t)
	snapshot := filepath.Join(env.baseDir, "export", "snapshot.json.gz")

	out, _, err := runCLI(t, []string{"export", "--snapshot", snapshot}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 3 assets (3 samples)")
	requireContains(t, out, "Wrote snapshot to "+snapshot)

	read, err := catalog.ReadSnapshot(snapshot)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(read.Assets) != 3 {
		t.Fatalf("snapshot assets = %d", len(read.Assets))
	}

	out, _, err = runCLI(t, []string{"catalog", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	requireContains(t, out, "ref:Fuer-Elise")
	requireContains(t, out, "ref:Score")

	out, _, err = runCLI(t, []string{"--json", "export", "ref:Score"}, env.configPath)
	if err != nil {
		t.Fatalf("export subset: %v", err)
	}
	var summary exportSummary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Assets != 1 || summary.Samples != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	out, _, err = runCLI(t, []string{"catalog", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	if strings.Contains(out, "ref:Fuer-Elise") {
		t.Fatalf("export should replace the catalog:\n%s", out)
	}
}

func TestExportLogsSnapshotFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	blocked := filepath.Join(env.configPath, "snapshot.json")

	_, stderr, err := runCLI(t, []string{"export", "ref:Score", "--snapshot", blocked}, env.configPath)
	if err == nil {
		t.Fatal("expected snapshot write to fail below a regular file")
	}
	requireContains(t, stderr, "snapshot write failed")
	requireContains(t, stderr, "catalog_without_snapshot")
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "# Config path: "+env.configPath)
	requireContains(t, out, env.cfg.Paths.MediaDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists")
	}
}

func TestDoctor(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "Media directory")
	requireContains(t, out, "ok")

	env.cfg.Paths.MediaDir = filepath.Join(env.baseDir, "missing")
	writeTestConfig(t, env.configPath, env.cfg)
	if _, _, err := runCLI(t, []string{"doctor"}, env.configPath); err == nil {
		t.Fatal("expected doctor to fail for missing media directory")
	}
}

func TestCommandsRequireValidConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Logging.Format = "xml"
	path := filepath.Join(testsupport.BaseDir(cfg), "bad.toml")
	writeTestConfig(t, path, cfg)

	if _, _, err := runCLI(t, []string{"resolve", "ref:Any"}, path); err == nil {
		t.Fatal("expected config validation error")
	}
}
