package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/QueryType/bharattrader/pkg/config"
	"github.com/QueryType/bharattrader/pkg/core/agent"
	"github.com/QueryType/bharattrader/pkg/core/llm"
)

func newRunCmd() *cobra.Command {
	var (
		cfgPath  string
		verbose  bool
		provider string
		opts     agent.RunOptions
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze every business on the watchlist for turnaround signs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.SetupLogging(verbose)

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.ActiveProvider = provider
			}
			if opts.CSVPath != "" {
				if _, err := os.Stat(opts.CSVPath); err != nil {
					return fmt.Errorf("watchlist %q not found: %w", opts.CSVPath, err)
				}
			}

			manager := llm.NewManager(cfg)
			runner := agent.NewRunner(manager, &cfg)

			summary, err := runner.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Printf("Analyzed %d businesses (%d failed)\n",
				len(summary.Results), len(summary.Failed))
			for _, r := range summary.Results {
				fmt.Printf("  %-30s %-20s %s\n", r.Business.Name, r.Verdict, r.ReportPath)
			}
			for _, name := range summary.Failed {
				fmt.Printf("  %-30s FAILED\n", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to fininsight.yaml")
	cmd.Flags().StringVar(&opts.CSVPath, "csv", "", "Watchlist CSV with Name, BSE Code, NSE Code columns")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Directory for the generated reports")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 0, "Step budget per business (default from config)")
	cmd.Flags().StringVar(&provider, "provider", "", "LLM provider: gemini, claude, openai, deepseek")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Override the configured agent model")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:          "turnaround",
		Short:        "Step-bounded research agent that screens businesses for turnarounds",
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
