package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/five82/podrun/internal/app"
	"github.com/five82/podrun/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := flag.NewFlagSet("podrun", flag.ContinueOnError)
	prompt := flags.String("prompt", "", "override the text prompt in the workflow")
	configPath := flags.String("config", "", fmt.Sprintf("config file path (optional, defaults to %s)", config.DefaultPath()))
	plain := flags.Bool("plain", false, "print progress lines instead of the live view")
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "Usage: podrun [flags] <input.json>\n\nRun a RunPod job and decode its output.\n\nFlags:\n")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return 2
	}

	// A missing .env is fine; the environment may already carry the key.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		InputPath:  flags.Arg(0),
		Prompt:     *prompt,
		ConfigPath: *configPath,
		Plain:      *plain,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "podrun: %v\n", err)
		return 1
	}
	return 0
}
