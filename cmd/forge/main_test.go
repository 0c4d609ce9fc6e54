package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestModulePathOfReadsModuleDirective(t *testing.T) {
	dir := t.TempDir()
	goMod := "module github.com/example/widget\n\ngo 1.22\n"
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0o644); err != nil {
		t.Fatal(err)
	}

	got := modulePathOf(dir)
	if got != "github.com/example/widget" {
		t.Fatalf("expected module path, got %q", got)
	}
}

func TestModulePathOfFallsBackToDirNameWithoutGoMod(t *testing.T) {
	dir := t.TempDir()

	got := modulePathOf(dir)
	if got != filepath.Base(dir) {
		t.Fatalf("expected fallback to base name %q, got %q", filepath.Base(dir), got)
	}
}

func TestRootCmdRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"run": false, "index": false, "tui": false, "bench": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected rootCmd to register a %q subcommand", name)
		}
	}
}
