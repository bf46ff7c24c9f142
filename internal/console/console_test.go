package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrinter_WritesTaggedLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, DefaultPalette)

	p.Infof("Reading workflow from %s...", "job.json")
	p.Warnf("no prompt node")
	p.Errorf("submit failed: %v", "boom")
	p.Successf("Saved to %s", "/tmp/a.png")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"INFO  Reading workflow from job.json...",
		"WARN  no prompt node",
		"ERROR submit failed: boom",
		"OK    Saved to /tmp/a.png",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFormatLine_IndentsContinuationLines(t *testing.T) {
	got := FormatLine(LevelError, "Job failed.\n{\n  \"id\": \"x\"\n}\n")
	want := "ERROR Job failed.\n      {\n        \"id\": \"x\"\n      }"
	if got != want {
		t.Fatalf("FormatLine = %q, want %q", got, want)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelInfo, "INFO"},
		{LevelSuccess, "OK"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "INFO"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestPrinter_LineKeepsMessageVerbatim(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, DefaultPalette).Line(LevelWarn, "100% done")

	if got, want := buf.String(), "WARN  100% done\n"; got != want {
		t.Fatalf("Line wrote %q, want %q", got, want)
	}
}
