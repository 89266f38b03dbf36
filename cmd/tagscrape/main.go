package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/tagscrape/internal/app"
	"github.com/hyperifyio/tagscrape/internal/report"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewMain().Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps failures to process exit codes: 2 when there was nothing to
// export, 1 otherwise.
func exitCode(err error) int {
	if errors.Is(err, report.ErrNoData) {
		return 2
	}
	return 1
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tagscrape"),
		kong.Description("Extract the text of HTML elements from a web page and export it as a PDF table"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tagscrape --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	deps.Globals = cli.Globals

	if cli.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	return kongCtx.Run(deps)
}

// resolve merges command flags with the config file, env and defaults.
func (d *Dependencies) resolve(flags app.Config) (app.Config, error) {
	flags.Verbose = d.Globals.Verbose
	cfg, err := app.Resolve(d.Globals.Config, d.Globals.EnvFile, flags)
	if err != nil {
		return app.Config{}, err
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}
