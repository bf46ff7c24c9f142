package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/five82/podrun/internal/console"
	"github.com/five82/podrun/internal/output"
	"github.com/five82/podrun/internal/runpod"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultRetryDelay   = 5 * time.Second
)

var (
	// ErrPollLimit is returned when MaxPolls status requests did not reach a
	// terminal status.
	ErrPollLimit = errors.New("poll limit reached")
	// ErrJobFailed is returned when the job ended in a terminal status other
	// than COMPLETED.
	ErrJobFailed = errors.New("job did not complete")
)

// StatusSink observes job progress. *state.Store implements it.
type StatusSink interface {
	Submitted(job *runpod.JobStatus)
	Update(job *runpod.JobStatus, err error)
}

// OutputSaver decodes the media of a completed job. *output.Saver implements it.
type OutputSaver interface {
	Save(doc json.RawMessage) (output.Summary, error)
}

// WaitFunc blocks for d or until ctx is done.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Poller submits one job and follows it to a terminal status.
type Poller struct {
	API    runpod.JobAPI
	Saver  OutputSaver
	Report console.Reporter
	Sink   StatusSink

	// Endpoint is only used in progress messages.
	Endpoint     string
	PollInterval time.Duration
	RetryDelay   time.Duration
	MaxPolls     int // zero polls until a terminal status
	Wait         WaitFunc
}

// Result describes how the job ended.
type Result struct {
	JobID  string
	Status runpod.Status
	Polls  int
	Output *output.Summary
}

// Run submits payload and polls until the job is terminal, the poll limit is
// hit or ctx is done. A completed job's output is handed to Saver exactly once.
func (p *Poller) Run(ctx context.Context, payload any) (Result, error) {
	report := p.reporter()

	if p.Endpoint != "" {
		report.Infof("Submitting job to %s/run ...", p.Endpoint)
	} else {
		report.Infof("Submitting job ...")
	}
	job, err := p.API.Submit(ctx, payload)
	if err != nil {
		report.Errorf("Error submitting job: %v", err)
		return Result{}, fmt.Errorf("submit job: %w", err)
	}
	if p.Sink != nil {
		p.Sink.Submitted(job)
	}
	report.Infof("Job submitted. ID: %s, Status: %s", job.ID, job.Status)

	return p.follow(ctx, job)
}

func (p *Poller) follow(ctx context.Context, job *runpod.JobStatus) (Result, error) {
	report := p.reporter()
	res := Result{JobID: job.ID, Status: job.Status}

	current := job
	for !current.Status.Terminal() {
		if p.MaxPolls > 0 && res.Polls >= p.MaxPolls {
			report.Errorf("Giving up on job %s after %d status polls (last status %s)", job.ID, res.Polls, current.Status)
			return res, fmt.Errorf("%w: job %s still %s after %d polls", ErrPollLimit, job.ID, current.Status, res.Polls)
		}
		if err := p.wait(ctx, p.interval()); err != nil {
			return res, err
		}

		res.Polls++
		next, err := p.API.Status(ctx, job.ID)
		if p.Sink != nil {
			p.Sink.Update(next, err)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			report.Errorf("Error polling status: %v", err)
			if err := p.wait(ctx, p.retryDelay()); err != nil {
				return res, err
			}
			continue
		}

		current = next
		res.Status = current.Status
		report.Infof("Status: %s", current.Status)
	}

	return p.finish(current, res)
}

func (p *Poller) finish(job *runpod.JobStatus, res Result) (Result, error) {
	report := p.reporter()

	switch job.Status {
	case runpod.StatusCompleted:
		report.Successf("Job completed!")
		if p.Saver == nil {
			return res, nil
		}
		// Save reports its own failures; a malformed output does not fail
		// the run.
		summary, err := p.Saver.Save(recordJSON(job))
		if err == nil {
			res.Output = &summary
		}
		return res, nil
	case runpod.StatusFailed:
		report.Errorf("Job failed.\n%s", job.Pretty())
	default:
		report.Warnf("Job ended with status %s.\n%s", job.Status, job.Pretty())
	}
	return res, fmt.Errorf("%w: job %s ended with status %s", ErrJobFailed, job.ID, job.Status)
}

func (p *Poller) reporter() console.Reporter {
	if p.Report == nil {
		return console.Discard
	}
	return p.Report
}

func (p *Poller) interval() time.Duration {
	if p.PollInterval <= 0 {
		return defaultPollInterval
	}
	return p.PollInterval
}

func (p *Poller) retryDelay() time.Duration {
	if p.RetryDelay <= 0 {
		return defaultRetryDelay
	}
	return p.RetryDelay
}

func (p *Poller) wait(ctx context.Context, d time.Duration) error {
	if p.Wait != nil {
		return p.Wait(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// recordJSON returns the status record as received, re-encoding it when the
// raw body was not kept.
func recordJSON(job *runpod.JobStatus) json.RawMessage {
	if len(job.Raw) > 0 {
		return job.Raw
	}
	encoded, err := json.Marshal(job)
	if err != nil {
		return nil
	}
	return encoded
}
