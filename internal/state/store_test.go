package state

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/five82/podrun/internal/console"
	"github.com/five82/podrun/internal/runpod"
)

func TestStore_SubmittedAndUpdate(t *testing.T) {
	var s Store

	before := time.Now()
	s.Submitted(&runpod.JobStatus{ID: "job-1", Status: runpod.StatusInQueue})
	s.Update(&runpod.JobStatus{ID: "job-1", Status: runpod.StatusInProgress}, nil)

	snap := s.Snapshot()
	if snap.JobID != "job-1" || snap.Status != runpod.StatusInProgress {
		t.Fatalf("snapshot = %+v, want job-1 IN_PROGRESS", snap)
	}
	if snap.Polls != 1 {
		t.Fatalf("Polls = %d, want 1", snap.Polls)
	}
	if snap.SubmittedAt.Before(before) || snap.LastUpdated.Before(snap.SubmittedAt) {
		t.Fatalf("timestamps out of order: submitted %v updated %v", snap.SubmittedAt, snap.LastUpdated)
	}
	if snap.Retrying() {
		t.Fatalf("Retrying = true, want false")
	}
}

func TestStore_UpdateErrorKeepsPreviousStatus(t *testing.T) {
	var s Store
	s.Submitted(&runpod.JobStatus{ID: "job-1", Status: runpod.StatusInQueue})

	boom := errors.New("boom")
	s.Update(nil, boom)
	s.Update(nil, boom)

	snap := s.Snapshot()
	if snap.Status != runpod.StatusInQueue {
		t.Fatalf("Status = %s, want IN_QUEUE kept", snap.Status)
	}
	if !errors.Is(snap.LastError, boom) || snap.ConsecutiveFailures != 2 || !snap.Retrying() {
		t.Fatalf("snapshot = %+v, want two consecutive failures", snap)
	}

	s.Update(&runpod.JobStatus{Status: runpod.StatusCompleted}, nil)
	snap = s.Snapshot()
	if snap.LastError != nil || snap.ConsecutiveFailures != 0 || snap.Polls != 3 {
		t.Fatalf("snapshot after recovery = %+v", snap)
	}
}

func TestStore_ReporterAppendsBoundedEntries(t *testing.T) {
	s := Store{Limit: 3}

	for i := 0; i < 5; i++ {
		s.Infof("line %d", i)
	}
	s.Errorf("failed: %v", "x")

	snap := s.Snapshot()
	if len(snap.Entries) != 3 || snap.EntryCount != 6 {
		t.Fatalf("entries = %d (count %d), want 3 of 6", len(snap.Entries), snap.EntryCount)
	}
	for i, want := range []string{"line 3", "line 4", "failed: x"} {
		if snap.Entries[i].Message != want {
			t.Fatalf("entry %d = %q, want %q", i, snap.Entries[i].Message, want)
		}
	}
	if snap.Entries[2].Level != console.LevelError {
		t.Fatalf("level = %v, want error", snap.Entries[2].Level)
	}

	snap.Entries[0].Message = "mutated"
	if got := s.Snapshot().Entries[0].Message; got != "line 3" {
		t.Fatalf("Snapshot should clone entries; got %q", got)
	}
}

func TestStore_Finish(t *testing.T) {
	var s Store
	err := fmt.Errorf("poll: %w", errors.New("limit"))
	s.Finish(err)

	snap := s.Snapshot()
	if !snap.Done || snap.Err != err {
		t.Fatalf("snapshot = %+v, want done with error", snap)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	var s Store
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			s.Update(&runpod.JobStatus{Status: runpod.StatusInProgress}, nil)
			s.Warnf("tick %d", i)
		}
	}()
	for i := 0; i < 100; i++ {
		_ = s.Snapshot()
	}
	<-done
	if got := s.Snapshot().Polls; got != 100 {
		t.Fatalf("Polls = %d, want 100", got)
	}
}

func TestSnapshot_EntriesSince(t *testing.T) {
	s := Store{Limit: 3}
	for i := 0; i < 5; i++ {
		s.Infof("line %d", i)
	}
	snap := s.Snapshot()

	tests := []struct {
		since int
		want  []string
	}{
		{0, []string{"line 2", "line 3", "line 4"}},
		{3, []string{"line 3", "line 4"}},
		{5, nil},
		{9, nil},
	}
	for _, tt := range tests {
		var got []string
		for _, e := range snap.EntriesSince(tt.since) {
			got = append(got, e.Message)
		}
		if fmt.Sprint(got) != fmt.Sprint(tt.want) {
			t.Errorf("EntriesSince(%d) = %q, want %q", tt.since, got, tt.want)
		}
	}
}
