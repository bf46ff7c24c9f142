package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/podrun/internal/console"
	"github.com/five82/podrun/internal/runpod"
)

// DefaultEntryLimit bounds the log history kept for the UI.
const DefaultEntryLimit = 200

// Entry is one reported progress line.
type Entry struct {
	Time    time.Time
	Level   console.Level
	Message string
}

// Snapshot represents the latest job progress available to the UI.
type Snapshot struct {
	JobID               string
	Status              runpod.Status
	Polls               int // status requests attempted, failed ones included
	SubmittedAt         time.Time
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
	Entries             []Entry
	EntryCount          int // entries ever reported, including dropped ones
	Done                bool
	Err                 error // final run error once Done
}

// EntriesSince returns the retained entries numbered n or later, counting
// from zero over every entry ever reported.
func (s Snapshot) EntriesSince(n int) []Entry {
	first := s.EntryCount - len(s.Entries)
	if n < first {
		n = first
	}
	if n >= s.EntryCount {
		return nil
	}
	return s.Entries[n-first:]
}

// Retrying reports whether the most recent status poll failed.
func (s Snapshot) Retrying() bool {
	return s.ConsecutiveFailures > 0
}

// Store coordinates concurrent updates to the snapshot. The zero value is
// ready to use.
type Store struct {
	// Limit caps the number of retained entries; zero uses DefaultEntryLimit.
	Limit int

	mu       sync.RWMutex
	snapshot Snapshot
}

var _ console.Reporter = (*Store)(nil)

// Submitted records the job returned by the submit call.
func (s *Store) Submitted(job *runpod.JobStatus) {
	if job == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.JobID = job.ID
	s.snapshot.Status = job.Status
	s.snapshot.SubmittedAt = now
	s.snapshot.LastUpdated = now
}

// Update records one poll. When err is non-nil the previous status is kept but
// the error is recorded for visibility.
func (s *Store) Update(job *runpod.JobStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Polls++
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	if job != nil {
		s.snapshot.Status = job.Status
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Finish marks the run as over.
func (s *Store) Finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Done = true
	s.snapshot.Err = err
	s.snapshot.LastUpdated = time.Now()
}

func (s *Store) Infof(format string, args ...any)    { s.append(console.LevelInfo, format, args...) }
func (s *Store) Successf(format string, args ...any) { s.append(console.LevelSuccess, format, args...) }
func (s *Store) Warnf(format string, args ...any)    { s.append(console.LevelWarn, format, args...) }
func (s *Store) Errorf(format string, args ...any)   { s.append(console.LevelError, format, args...) }

func (s *Store) append(level console.Level, format string, args ...any) {
	entry := Entry{Time: time.Now(), Level: level, Message: fmt.Sprintf(format, args...)}

	s.mu.Lock()
	defer s.mu.Unlock()

	limit := s.Limit
	if limit <= 0 {
		limit = DefaultEntryLimit
	}
	s.snapshot.Entries = append(s.snapshot.Entries, entry)
	s.snapshot.EntryCount++
	if over := len(s.snapshot.Entries) - limit; over > 0 {
		s.snapshot.Entries = append([]Entry(nil), s.snapshot.Entries[over:]...)
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Entries = cloneEntries(s.snapshot.Entries)
	return snap
}

func cloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	dup := make([]Entry, len(entries))
	copy(dup, entries)
	return dup
}
