// Package app provides the orchestration layer for podrun.
//
// # Overview
//
// Run is the composition root: it loads configuration, checks the RunPod
// credential, builds the API client and then follows one job from submission
// to its terminal status.
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()      Read TOML config + credential
//	       ├─────> cfg.Validate()     Fail fast without an API key
//	       ├─────> runpod.NewClient() HTTP client for the endpoint
//	       └─────> job.run()
//	               ├─> workflow.Load() / Prepare()   seeds + prompt
//	               └─> Poller.Run()
//	                   ├─> Submit
//	                   ├─> Status (every poll_seconds)
//	                   └─> output.Saver.Save() on COMPLETED
//
// # Output Modes
//
// When stdout is a terminal the job runs in a goroutine and ui.Run renders
// progress from a shared state.Store. Otherwise, or with --plain, lines go
// straight to a console.Printer.
//
// # Polling Behavior
//
// The poller waits poll_seconds (default 2s) before each status request while
// the job is IN_QUEUE or IN_PROGRESS. A failed request is logged, followed by
// an extra retry_seconds wait (default 5s), and never ends the run on its own.
// max_polls and timeout_seconds bound the loop; both default to unlimited.
// Cancelling the context stops any wait immediately.
//
// # Error Handling
//
// Fatal (returned from Run):
//   - Missing credential or invalid config
//   - Malformed input document
//   - Submission failure
//   - Job ending FAILED, CANCELLED or TIMED_OUT
//   - Poll limit, timeout or interruption
//
// Recoverable (logged, run continues):
//   - Individual status poll failures
//   - Per-item media decode or write failures
//   - Missing input.workflow or prompt target
package app
