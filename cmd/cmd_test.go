package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testUpdates = `{"Highlights": {"Version X": {"Version X": {"Description": "Faster caching", "Documentation": "docs/x"}}}}`

// writeConfig creates a config file pointing at a temporary updates
// document and usage ledger.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	updates := filepath.Join(dir, "updates.json")
	if err := os.WriteFile(updates, []byte(testUpdates), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := "updates_file: " + updates + "\n" +
		"storage:\n  path: " + filepath.Join(dir, "usage.db") + "\n"
	path := filepath.Join(dir, ".streamly.yml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		updatesCmd.Flags().Set("json", "false")
		usageCmd.Flags().Set("json", "false")
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	got := run(t, "version")
	if got != "streamly "+Version+"\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestUpdatesLookupJSON(t *testing.T) {
	cfg := writeConfig(t)

	got := run(t, "--config", cfg, "updates", "caching", "--json")

	var result updatesOutput
	if err := json.Unmarshal([]byte(got), &result); err != nil {
		t.Fatalf("decoding %q: %v", got, err)
	}
	want := "Section: Highlights\nSub-Category: Version X\nVersion X: Faster caching"
	if result.Content != want {
		t.Errorf("content = %q, want %q", result.Content, want)
	}
	if result.Match == nil || result.Match.Section != "Highlights" {
		t.Errorf("match = %+v", result.Match)
	}
}

func TestUpdatesHighlights(t *testing.T) {
	cfg := writeConfig(t)

	got := run(t, "--config", cfg, "updates")
	if !strings.Contains(got, "Faster caching") {
		t.Errorf("highlights output missing entry: %q", got)
	}
}

func TestUsageEmptyLedger(t *testing.T) {
	cfg := writeConfig(t)

	got := run(t, "--config", cfg, "usage", "--json")

	var result usageOutput
	if err := json.Unmarshal([]byte(got), &result); err != nil {
		t.Fatalf("decoding %q: %v", got, err)
	}
	if result.Summary.Exchanges != 0 || len(result.Recent) != 0 {
		t.Errorf("expected empty ledger, got %+v", result)
	}
}
