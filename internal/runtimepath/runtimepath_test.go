package runtimepath

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := fmt.Sprintf("/tmp/webdesk-runtime-%d", os.Getuid())
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestActiveSessionPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	path, err := ActiveSessionPath()
	if err != nil {
		t.Fatalf("ActiveSessionPath() error: %v", err)
	}
	if !strings.HasSuffix(path, "/webdesk-active-session.json") {
		t.Fatalf("ActiveSessionPath() = %q, missing suffix", path)
	}
}

func TestRecordActiveSession_RoundTrip(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	if err := RecordActiveSession("current"); err != nil {
		t.Fatalf("RecordActiveSession() error: %v", err)
	}
	if err := RecordActiveSession("demo"); err != nil {
		t.Fatalf("RecordActiveSession() error: %v", err)
	}

	got, err := ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession() error: %v", err)
	}
	if got != "demo" {
		t.Fatalf("ActiveSession() = %q, want %q", got, "demo")
	}
}

func TestActiveSession_NoMarker(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	got, err := ActiveSession()
	if err != nil {
		t.Fatalf("ActiveSession() error: %v", err)
	}
	if got != "" {
		t.Fatalf("ActiveSession() = %q, want empty", got)
	}
}
