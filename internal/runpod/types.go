package runpod

import (
	"bytes"
	"encoding/json"
)

// Status is the lifecycle state RunPod reports for a job.
type Status string

const (
	StatusInQueue    Status = "IN_QUEUE"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
	StatusTimedOut   Status = "TIMED_OUT"
)

// Pending reports whether the job may still change state.
func (s Status) Pending() bool {
	return s == StatusInQueue || s == StatusInProgress
}

// Terminal reports whether no further transition will occur.
func (s Status) Terminal() bool {
	return !s.Pending()
}

// JobStatus mirrors the payload returned by /run and /status/{id}. Only id
// and status are typed strictly; workers put arbitrary shapes in error and
// the timings may be fractional.
type JobStatus struct {
	ID            string          `json:"id"`
	Status        Status          `json:"status"`
	Output        json.RawMessage `json:"output,omitempty"`
	Error         json.RawMessage `json:"error,omitempty"`
	DelayTime     float64         `json:"delayTime,omitempty"`
	ExecutionTime float64         `json:"executionTime,omitempty"`

	// Raw holds the response body exactly as received.
	Raw json.RawMessage `json:"-"`
}

// Pretty returns the raw record as indented JSON, falling back to the raw
// bytes when they cannot be re-indented.
func (j JobStatus) Pretty() string {
	raw := j.Raw
	if len(raw) == 0 {
		encoded, err := json.Marshal(j)
		if err != nil {
			return ""
		}
		raw = encoded
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
