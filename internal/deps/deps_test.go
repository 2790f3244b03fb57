package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"comicwebp/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
}

func TestForToolsUsesConfiguredNames(t *testing.T) {
	tools := config.Default().Tools
	tools.Cwebp = "/opt/libwebp/bin/cwebp"

	reqs := ForTools(tools)
	commands := make([]string, 0, len(reqs))
	for _, req := range reqs {
		commands = append(commands, req.Command)
		if req.Command == "unrar" && !req.Optional {
			t.Fatal("unrar should be optional")
		}
	}
	want := "file,7z,unrar,/opt/libwebp/bin/cwebp,gif2webp"
	if got := strings.Join(commands, ","); got != want {
		t.Fatalf("unexpected commands %q, want %q", got, want)
	}
}

func TestMissingRequired(t *testing.T) {
	statuses := []Status{
		{Name: "A", Available: true},
		{Name: "B"},
		{Name: "C", Optional: true},
	}
	missing := MissingRequired(statuses)
	if len(missing) != 1 || missing[0] != "B" {
		t.Fatalf("unexpected missing list %v", missing)
	}
}
