package main

import (
	"path/filepath"
	"testing"
)

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no input", nil},
		{"two inputs", []string{"a.json", "b.json"}},
		{"unknown flag", []string{"--bogus", "a.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != 2 {
				t.Fatalf("run(%v) = %d, want 2", tt.args, got)
			}
		})
	}
}

func TestRun_MissingCredentialExitsNonZero(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RUNPOD_API_KEY", "")

	input := filepath.Join(t.TempDir(), "job.json")
	if got := run([]string{"--plain", input}); got != 1 {
		t.Fatalf("run = %d, want 1", got)
	}
}
