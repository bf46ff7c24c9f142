// Package ui renders a live progress view while a job is being followed.
//
// # Architecture
//
// The view is a small Bubble Tea program. It never talks to RunPod itself;
// the poller runs in its own goroutine and records progress in a state.Store.
// On every refresh tick the model takes a Snapshot and
//
//   - prints newly reported lines above the view with tea.Println, so the
//     full log stays in the terminal scrollback after exit
//   - redraws a one-line header: spinner, job id, status badge, poll count
//     and elapsed time, plus a retry notice while polls are failing
//   - quits once the snapshot is marked Done
//
// # Keys
//
//   - q, esc, ctrl+c: stop waiting. Run returns ErrInterrupted and the caller
//     cancels the job context.
//
// # Themes
//
// Nightfox (default), Kanagawa and Slate. Theme.Palette feeds the same colors
// to console.Printer for plain output.
package ui
