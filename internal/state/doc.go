// Package state provides thread-safe job progress shared between the poller
// and the watch UI.
//
// # Overview
//
// The poller runs in its own goroutine while the Bubble Tea program renders.
// Store is the coordination point: the poller records the submitted job, each
// status poll and every reported line, and the UI reads a Snapshot on every
// refresh tick.
//
//	Producer (poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ Submitted(job)   │           │                  │
//	│ Update(job, err) │──────────→│ store.Snapshot() │
//	│ Infof/Warnf/...  │  (mutex)  │      ↓           │
//	│ Finish(err)      │           │  render view     │
//	└──────────────────┘           └──────────────────┘
//
// # Concurrency Model
//
// Store uses a readers-writer lock. Writers hold it only while mutating the
// snapshot; Snapshot copies the entry history so callers can keep the result
// without further locking.
//
// # Log History
//
// Store implements console.Reporter. Entries beyond Limit (DefaultEntryLimit
// when zero) are dropped oldest first.
package state
