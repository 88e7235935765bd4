package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "bmitrack.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func TestBMICommand(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "bmi", "--weight", "70", "--height", "175", "--system", "metric")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"BMI:      22.9 (Normal)", "Advice:   maintain"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "bmi", "-w", "200", "-H", "67")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "lose 40.4 lb") {
		t.Errorf("expected lose advice:\n%s", out)
	}

	if _, err := run(t, "bmi", "--weight", "70", "--height", "0", "--system", "metric"); err == nil {
		t.Error("expected error for zero height")
	}
}

func TestBMICommand_StoredProfile(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "bmi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "BMI:      23.5 (Normal)") || !strings.Contains(out, "Goal:     50%") {
		t.Errorf("unexpected report:\n%s", out)
	}
}

func TestCategoriesCommand(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "categories")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected header and 8 bands, got %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[4], "Normal") || !strings.Contains(lines[4], "18.5") {
		t.Errorf("unexpected normal row %q", lines[4])
	}
}

func TestLogAndHistoryCommands(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "history")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No entries.") {
		t.Errorf("expected empty history:\n%s", out)
	}

	if _, err := run(t, "log", "151.5"); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, err := run(t, "log", "69", "--system", "metric"); err != nil {
		t.Fatalf("log: %v", err)
	}
	if _, err := run(t, "log", "-3"); err == nil {
		t.Error("expected error for negative weight")
	}
	if _, err := run(t, "log", "heavy"); err == nil {
		t.Error("expected error for non-numeric weight")
	}

	out, err = run(t, "history")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 entries:\n%s", out)
	}
	if !strings.Contains(lines[1], "69.0 kg") || !strings.Contains(lines[2], "151.5 lb") {
		t.Errorf("expected newest first:\n%s", out)
	}
}

func TestSettingsCommands(t *testing.T) {
	useTempDB(t)

	out, err := run(t, "settings")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "System:   imperial") || !strings.Contains(out, "Weight:   150.0 lb") {
		t.Errorf("unexpected defaults:\n%s", out)
	}

	if _, err := run(t, "settings", "set", "--weight", "160"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := run(t, "settings", "set", "--height", "-1"); err == nil {
		t.Error("expected error for negative height")
	}

	out, err = run(t, "settings", "system", "metric")
	if err != nil {
		t.Fatalf("system: %v", err)
	}
	for _, want := range []string{"System:   metric", "Weight:   73.0 kg", "Height:   170 cm"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "settings", "system", "stone"); err == nil {
		t.Error("expected error for unknown system")
	}
}
