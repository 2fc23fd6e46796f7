package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/QueryType/bharattrader/pkg/config"
	"github.com/QueryType/bharattrader/pkg/core/collect"
	"github.com/QueryType/bharattrader/pkg/core/llm"
	"github.com/QueryType/bharattrader/pkg/core/pipeline"
	"github.com/QueryType/bharattrader/pkg/core/report"
)

type app struct {
	cfgPath  string
	dataDir  string
	verbose  bool
	provider string

	cfg config.Config
}

// setup runs after flag parsing for every subcommand: config, logging and
// provider selection.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	config.SetupLogging(a.verbose)

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.provider != "" {
		cfg.ActiveProvider = a.provider
	}
	a.cfg = cfg
	return nil
}

func (a *app) pipeline() (*pipeline.Pipeline, *llm.Manager) {
	manager := llm.NewManager(a.cfg)
	return pipeline.New(a.cfg, manager), manager
}

// resolveFolder turns a company folder argument into a concrete path and
// fails with a clear message when it does not exist.
func (a *app) resolveFolder(folder string) (string, error) {
	path, err := collect.ResolveCompanyFolder(a.cfg.DataDir, folder)
	if err != nil {
		return "", fmt.Errorf("company folder %q not found under %s: %w", folder, a.cfg.DataDir, err)
	}
	return path, nil
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List company folders in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			companies, err := collect.ListCompanies(a.cfg.DataDir)
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				fmt.Printf("No company folders found in %s\n", a.cfg.DataDir)
				return nil
			}
			fmt.Printf("Companies in %s:\n", a.cfg.DataDir)
			for _, c := range companies {
				fmt.Printf("  %s\n", c)
			}
			return nil
		},
	}
}

func newProcessCmd(a *app) *cobra.Command {
	var noCache bool
	cmd := &cobra.Command{
		Use:   "process <folder>",
		Short: "Convert every supported document in the folder to markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := a.resolveFolder(args[0])
			if err != nil {
				return err
			}
			if noCache {
				a.cfg.Converters.DisableCache = true
			}
			p, _ := a.pipeline()
			defer p.Close()

			result, err := p.Process(cmd.Context(), folder)
			if err != nil {
				return err
			}
			fmt.Printf("Processed %s: %d converted, %d skipped, %d failed\n",
				folder, len(result.Converted), len(result.Skipped), len(result.Failed))
			return nil
		},
	}
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the conversion cache")
	return cmd
}

func newMasterCmd(a *app) *cobra.Command {
	var outputDir string
	cmd := &cobra.Command{
		Use:   "master <folder>",
		Short: "Assemble processed markdown files into a single master file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := a.resolveFolder(args[0])
			if err != nil {
				return err
			}
			p, _ := a.pipeline()
			defer p.Close()

			mf, err := p.Master(folder, outputDir)
			if err != nil {
				return err
			}
			fmt.Printf("Master file written: %s (%d sources)\n", mf.Path, mf.SourceCount)
			return nil
		},
	}
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the master file (default: company folder)")
	return cmd
}

func reportFlags(cmd *cobra.Command, opts *report.Options) {
	cmd.Flags().StringVar(&opts.TemplatePath, "template", "", "Prompt template file (markdown with system/user sections)")
	cmd.Flags().StringVar(&opts.OutputDir, "output-dir", "", "Directory for the report (default: next to the master file)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Override the configured text model")
}

func newReportCmd(a *app) *cobra.Command {
	var opts report.Options
	cmd := &cobra.Command{
		Use:   "report <master-file>",
		Short: "Generate an equity research report from a master file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			masterPath := args[0]
			if _, err := os.Stat(masterPath); err != nil {
				return fmt.Errorf("master file %q not found: %w", masterPath, err)
			}
			p, _ := a.pipeline()
			defer p.Close()

			rep, err := p.Report(cmd.Context(), masterPath, opts)
			if err != nil {
				return err
			}
			fmt.Printf("Report written: %s\n", rep.Path)
			return nil
		},
	}
	reportFlags(cmd, &opts)
	return cmd
}

func newAllCmd(a *app) *cobra.Command {
	var opts report.Options
	var noCache bool
	cmd := &cobra.Command{
		Use:   "all <folder>",
		Short: "Run process, master and report end to end for one company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := a.resolveFolder(args[0])
			if err != nil {
				return err
			}
			if noCache {
				a.cfg.Converters.DisableCache = true
			}
			p, _ := a.pipeline()
			defer p.Close()

			rep, err := p.RunAll(cmd.Context(), folder, opts)
			if err != nil {
				return err
			}
			fmt.Printf("Report written: %s\n", rep.Path)
			return nil
		},
	}
	reportFlags(cmd, &opts)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the conversion cache")
	return cmd
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "fininsight",
		Short:             "Convert company documents to markdown and generate equity research reports",
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "Path to fininsight.yaml")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Data directory with one folder per company")
	root.PersistentFlags().StringVar(&a.provider, "provider", "", "LLM provider: gemini, claude, openai, deepseek")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newListCmd(a),
		newProcessCmd(a),
		newMasterCmd(a),
		newReportCmd(a),
		newAllCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
