package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/five82/podrun/internal/config"
	"github.com/five82/podrun/internal/console"
	"github.com/five82/podrun/internal/output"
	"github.com/five82/podrun/internal/runpod"
	"github.com/five82/podrun/internal/state"
	"github.com/five82/podrun/internal/ui"
	"github.com/five82/podrun/internal/workflow"
)

// Options configure a podrun invocation.
type Options struct {
	InputPath  string
	Prompt     string
	ConfigPath string // empty uses ~/.config/podrun/config.toml
	Plain      bool   // force line output even on a terminal
	Stdout     io.Writer
}

// Run loads the configuration, then submits the job and follows it to the
// end. The credential is checked before anything else happens.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := runpod.NewClient(runpod.Options{
		BaseURL:        cfg.BaseURL,
		EndpointID:     cfg.EndpointID,
		APIKey:         cfg.APIKey,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("init runpod client: %w", err)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	j := job{cfg: cfg, api: client, endpoint: client.BaseURL(), opts: opts}

	printer := console.NewPrinter(stdout, ui.GetTheme(cfg.Theme).Palette())
	if opts.Plain || !isTerminal(stdout) {
		return j.run(ctx, printer, nil)
	}
	return runWatch(ctx, j, cfg.Theme, printer)
}

func runWatch(ctx context.Context, j job, themeName string, printer *console.Printer) error {
	store := &state.Store{}
	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		err := j.run(jobCtx, store, store)
		store.Finish(err)
		errCh <- err
	}()

	printed, uiErr := ui.Run(ctx, ui.Options{
		Store:     store,
		ThemeName: themeName,
		Title:     j.opts.InputPath,
	})
	if uiErr != nil {
		cancel()
	}
	jobErr := <-errCh
	// Lines reported after the view exited, e.g. on quit or timeout.
	flushEntries(printer, store.Snapshot(), printed)

	switch {
	case errors.Is(uiErr, ui.ErrInterrupted):
		return fmt.Errorf("stopped waiting for job: %w", jobErr)
	case uiErr != nil:
		return fmt.Errorf("watch ui: %w", uiErr)
	}
	return jobErr
}

func flushEntries(printer *console.Printer, snap state.Snapshot, printed int) {
	for _, entry := range snap.EntriesSince(printed) {
		printer.Line(entry.Level, entry.Message)
	}
}

// job is one submit-and-follow run.
type job struct {
	cfg      config.Config
	api      runpod.JobAPI
	endpoint string
	opts     Options
}

func (j job) run(ctx context.Context, report console.Reporter, sink StatusSink) error {
	report.Infof("Reading workflow from %s...", j.opts.InputPath)
	payload, err := workflow.Load(j.opts.InputPath)
	if err != nil {
		return err
	}
	workflow.Prepare(payload, workflow.Options{Prompt: j.opts.Prompt}, report)

	poller := &Poller{
		API:          j.api,
		Saver:        output.NewSaver(j.cfg.OutputDir, report),
		Report:       report,
		Endpoint:     j.endpoint,
		PollInterval: j.cfg.PollInterval,
		RetryDelay:   j.cfg.RetryDelay,
		MaxPolls:     j.cfg.MaxPolls,
	}
	if sink != nil {
		poller.Sink = sink
	}

	_, err = poller.Run(ctx, payload)
	if errors.Is(err, context.DeadlineExceeded) {
		report.Errorf("Gave up waiting after %s", j.cfg.Timeout)
	}
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
