package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLookupLevel(t *testing.T) {
	if l, ok := LookupLevel("warn"); !ok || l != LevelWarn {
		t.Errorf("LookupLevel(warn) = %v, %v, want WARN, true", l, ok)
	}
	if _, ok := LookupLevel("verbose"); ok {
		t.Error("LookupLevel(verbose) should not be known")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(LevelWarn)
	l.SetOutput(&buf)

	l.Info("hidden")
	l.Warn("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 1") {
		t.Errorf("missing warn line: %q", out)
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelDebug)
	root.SetOutput(&buf)

	child := root.Named("engine").Named("tick")
	child.Error("stage %s panicked", "render")

	if !strings.Contains(buf.String(), "[ERROR] engine.tick: stage render panicked") {
		t.Errorf("unexpected line: %q", buf.String())
	}

	// Children follow output changes on the parent.
	var other bytes.Buffer
	root.SetOutput(&other)
	child.Info("moved")
	if !strings.Contains(other.String(), "moved") {
		t.Errorf("child did not follow new output: %q", other.String())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orrery.log")
	l := New(LevelInfo)
	closer, err := l.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	l.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "[INFO] hello") {
		t.Errorf("log file = %q", data)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	l.Named("x").Error("nothing")
}
