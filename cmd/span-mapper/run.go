package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"span-mapper/internal/config"
	"span-mapper/internal/logger"
	"span-mapper/internal/lookup"
	"span-mapper/internal/pipeline"
	"span-mapper/internal/schema"
)

var (
	runOutput  string
	runWorkers int
	runWatch   bool
)

var runCmd = &cobra.Command{
	Use:   "run [documents...]",
	Short: "Map documents through the dictionary",
	Long: `Map every document file (YAML or JSON) with the configured rule.

Mapped documents are written to --output under their base names; without
--output only the per-document summary is printed.

With --watch (or watch = true) the dictionary file is watched after the first
pass, and the documents are mapped again from disk after every successful
reload until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "Output directory for mapped documents")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "Concurrent documents (default: from config)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run on dictionary changes")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = runWorkers
	}

	if cmd.Flags().Changed("watch") {
		cfg.Watch = runWatch
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ts, err := loadTypeSystem(cfg.DescriptorFiles(), cfg.Packages())
	if err != nil {
		return err
	}

	table, err := loadTable(cfg.File)
	if err != nil {
		return err
	}

	runner, err := pipeline.NewRunner(cfg.Rule(), table, cfg.Workers)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed, err := runOnce(ctx, cmd.OutOrStdout(), runner, ts, args)
	if err != nil {
		return err
	}

	if cfg.Watch {
		return watch(ctx, cmd.OutOrStdout(), cfg, table, runner, ts, args)
	}

	if failed > 0 {
		return errors.Newf("%d of %d documents failed", failed, len(args))
	}

	return nil
}

func runOnce(ctx context.Context, out io.Writer, runner *pipeline.Runner, ts *schema.TypeSystem, paths []string) (int, error) {
	jobs, err := pipeline.FileJobs(ts, paths, runOutput)
	if err != nil {
		return 0, err
	}

	results, err := runner.Run(ctx, jobs)

	for _, res := range results {
		switch {
		case res.Report != nil && res.Err != nil:
			fmt.Fprintf(out, "%s (%s): %v\n", res.Report, res.Name, res.Err)
		case res.Report != nil:
			fmt.Fprintf(out, "%s (%s)\n", res.Report, res.Name)
		default:
			fmt.Fprintf(out, "FAILED %s: %v\n", res.Name, res.Err)
		}
	}

	failed := pipeline.Failed(results)
	logger.Infow("Mapped documents", "documents", len(results), "failed", len(failed))

	return len(failed), err
}

// watch re-runs the documents after every successful dictionary reload.
func watch(ctx context.Context, out io.Writer, cfg *config.Config, holder *lookup.Holder,
	runner *pipeline.Runner, ts *schema.TypeSystem, paths []string,
) error {
	w, err := lookup.NewWatcher(cfg.File, holder)
	if err != nil {
		return err
	}

	reloaded := make(chan struct{}, 1)
	w.OnReload(func(_ *lookup.Dictionary, err error) {
		if err != nil {
			return
		}

		select {
		case reloaded <- struct{}{}:
		default:
		}
	})

	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	logger.Infow("Watching dictionary", "file", cfg.File)

	for {
		select {
		case <-ctx.Done():
			<-errCh
			return nil
		case err := <-errCh:
			return err
		case <-reloaded:
			if _, err := runOnce(ctx, out, runner, ts, paths); err != nil && ctx.Err() == nil {
				return err
			}
		}
	}
}
