package runpod

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatus_PendingAndTerminal(t *testing.T) {
	tests := []struct {
		status  Status
		pending bool
	}{
		{StatusInQueue, true},
		{StatusInProgress, true},
		{StatusCompleted, false},
		{StatusFailed, false},
		{StatusCancelled, false},
		{StatusTimedOut, false},
		{Status("SOMETHING_NEW"), false},
	}
	for _, tt := range tests {
		if got := tt.status.Pending(); got != tt.pending {
			t.Errorf("%s.Pending() = %v, want %v", tt.status, got, tt.pending)
		}
		if got := tt.status.Terminal(); got == tt.pending {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, !tt.pending)
		}
	}
}

func TestJobStatus_PrettyIndentsRaw(t *testing.T) {
	job := JobStatus{Raw: json.RawMessage(`{"id":"x","status":"FAILED","error":"oom"}`)}
	got := job.Pretty()
	want := "{\n  \"id\": \"x\",\n  \"status\": \"FAILED\",\n  \"error\": \"oom\"\n}"
	if got != want {
		t.Fatalf("Pretty = %q, want %q", got, want)
	}

	job = JobStatus{ID: "y", Status: StatusFailed}
	if got := job.Pretty(); !strings.Contains(got, `"status": "FAILED"`) {
		t.Fatalf("Pretty without raw = %q, want encoded struct", got)
	}

	job = JobStatus{Raw: json.RawMessage(`not json`)}
	if got := job.Pretty(); got != "not json" {
		t.Fatalf("Pretty invalid = %q, want raw passthrough", got)
	}
}
