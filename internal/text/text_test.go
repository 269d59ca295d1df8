package text

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	txt := Default()

	if got := txt.Title("restore"); got != "Investigate the tractor" {
		t.Errorf("Title(restore) = %q", got)
	}
	if got := txt.Objective("waterer", "GetGoldBars"); !strings.Contains(got, "10 gold bars") {
		t.Errorf("Objective(waterer, GetGoldBars) = %q", got)
	}
	if got := txt.Get("loader.complete"); !strings.HasPrefix(got, "Sweet!") {
		t.Errorf("Get(loader.complete) = %q", got)
	}
	if len(txt.MessageKeys()) == 0 {
		t.Error("defaults have no messages")
	}
}

func TestFallbacks(t *testing.T) {
	txt := Default()

	if got := txt.Get("no.such.key"); got != "no.such.key" {
		t.Errorf("unknown key should echo itself, got %q", got)
	}
	if got := txt.Title("nope"); got != "nope" {
		t.Errorf("unknown title should echo the kind, got %q", got)
	}
	if got := txt.Objective("restore", "Nope"); got != "" {
		t.Errorf("unknown objective = %q, want empty", got)
	}

	var nilText *Text
	if got := nilText.Title("loader"); got != "Fix the loader" {
		t.Errorf("nil Text should answer from defaults, got %q", got)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	content := `
quests:
  loader:
    title: "Loader, again"
    objectives:
      TalkToClint: "Go see Clint."
  custom:
    title: "Custom"
messages:
  loader.complete: "Done with %s!"
  brand.new: "Hello"
`
	path := filepath.Join(t.TempDir(), "text.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	txt, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load text: %v", err)
	}

	if got := txt.Title("loader"); got != "Loader, again" {
		t.Errorf("Title(loader) = %q", got)
	}
	if got := txt.Objective("loader", "TalkToClint"); got != "Go see Clint." {
		t.Errorf("overridden objective = %q", got)
	}
	if got := txt.Objective("loader", "FindSomeShoes"); got == "" {
		t.Error("objectives the file leaves out should keep their default")
	}
	if got := txt.Format("loader.complete", "the loader"); got != "Done with the loader!" {
		t.Errorf("Format = %q", got)
	}
	if got := txt.Get("brand.new"); got != "Hello" {
		t.Errorf("new key = %q", got)
	}
	if got := txt.Title("custom"); got != "Custom" {
		t.Errorf("new quest title = %q", got)
	}

	if got := Default().Get("loader.complete"); !strings.HasPrefix(got, "Sweet!") {
		t.Errorf("Load must not modify the defaults, got %q", got)
	}
}

func TestLoadError(t *testing.T) {
	if _, err := Load("/nonexistent/path/text.yaml"); err == nil {
		t.Error("Expected error for non-existent file")
	}

	tmpFile := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(tmpFile, []byte("not: valid: yaml: content:"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	if _, err := Load(tmpFile); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
