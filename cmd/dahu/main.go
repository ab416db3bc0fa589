// Command dahu checks Boolean functions for resiliency and algebraic
// immunity and searches rotation-symmetric functions meeting both.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"dahu/internal/errors"
	"dahu/rsf"
	"dahu/search"
)

// GlobalOptions hold the flags shared by every command.
type GlobalOptions struct {
	Verbose     bool
	LogFormat   string
	MetricsFile string

	logger  *slog.Logger
	metrics *search.Metrics
	caches  *rsf.Caches
	stdout  io.Writer
}

var globalOptions = GlobalOptions{stdout: os.Stdout}

var cmdRoot = &cobra.Command{
	Use:   "dahu",
	Short: "Resiliency and algebraic immunity of Boolean functions",
	Long: `
dahu evaluates Boolean functions given by their truth table and searches
rotation-symmetric functions that are both resilient and of high algebraic
immunity.
`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupGlobal(&globalOptions)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalOptions.MetricsFile == "" {
			return nil
		}
		return globalOptions.metrics.WriteTextfile(globalOptions.MetricsFile)
	},
}

func init() {
	f := cmdRoot.PersistentFlags()
	f.BoolVarP(&globalOptions.Verbose, "verbose", "v", false, "log debug messages")
	f.StringVar(&globalOptions.LogFormat, "log-format", "text", "log output `format` (text or json)")
	f.StringVar(&globalOptions.MetricsFile, "metrics-file", "", "write search metrics to `file` in textfile format on exit")
}

func setupGlobal(gopts *GlobalOptions) error {
	level := slog.LevelInfo
	if gopts.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	switch gopts.LogFormat {
	case "text":
		gopts.logger = slog.New(slog.NewTextHandler(os.Stderr, hopts))
	case "json":
		gopts.logger = slog.New(slog.NewJSONHandler(os.Stderr, hopts))
	default:
		return errors.Errorf("unknown log format %q", gopts.LogFormat)
	}
	slog.SetDefault(gopts.logger)

	c, err := rsf.NewCaches()
	if err != nil {
		return err
	}
	gopts.caches = &c
	gopts.metrics = search.NewMetrics()
	return nil
}

// searchOptions returns the driver options wired to the global logger,
// metrics and caches.
func (gopts *GlobalOptions) searchOptions() *search.Options {
	return &search.Options{
		Logger:  gopts.logger,
		Metrics: gopts.metrics,
		Caches:  gopts.caches,
	}
}

func (gopts *GlobalOptions) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(gopts.stdout, format, args...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmdRoot.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dahu: %v\n", err)
		stop()
		os.Exit(1)
	}
}
