package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/pipetree/internal/config"
	"github.com/gyaneshwarpardhi/pipetree/internal/graph"
	"github.com/gyaneshwarpardhi/pipetree/internal/hook"
	"github.com/gyaneshwarpardhi/pipetree/internal/pipeline"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "pipectl",
		Short:        "Inspect pipeline files offline",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.AddCommand(newValidateCmd())
	root.AddCommand(newFlattenCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a pipeline file for structural errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d sources)\n", args[0], len(cfg.Sources))
			return nil
		},
	}
}

func newFlattenCmd() *cobra.Command {
	var (
		active string
		hidden []string
		indent bool
	)
	cmd := &cobra.Command{
		Use:   "flatten <file>",
		Short: "Print the browser state a pipeline file produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			svc, ids, err := graph.Build(cfg)
			if err != nil {
				return fmt.Errorf("build pipeline: %w", err)
			}

			sess := pipeline.NewSession(svc, slog.Default())
			hooks := hook.NewRegistry(slog.Default())
			browser := pipeline.NewBrowser(sess, hooks,
				pipeline.WithActionIcon(pipeline.ActionDelete, cfg.Browser.DeleteIcon))
			hook.RegisterDefaults(hooks, svc, browser, slog.Default())

			for _, key := range hidden {
				id, ok := ids[key]
				if !ok {
					return fmt.Errorf("--hide: unknown source key %q", key)
				}
				browser.OnVisibilityChanged(fmt.Sprint(id), false)
			}
			if active != "" {
				id, ok := ids[active]
				if !ok {
					return fmt.Errorf("--active: unknown source key %q", active)
				}
				browser.OnActiveChanged([]string{fmt.Sprint(id)})
			}
			browser.Update()

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(browser.State())
		},
	}
	cmd.Flags().StringVar(&active, "active", "", "source key to make active")
	cmd.Flags().StringSliceVar(&hidden, "hide", nil, "source keys to hide")
	cmd.Flags().BoolVar(&indent, "indent", true, "indent JSON output")
	return cmd
}

func loadConfig(path string) (*config.PipelineConfig, error) {
	loader, err := config.NewLoader(path)
	if err != nil {
		return nil, err
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
