package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"uxstat/adapters/excel"
	"uxstat/adapters/stats/cluster"
	"uxstat/app"
	"uxstat/internal"
	"uxstat/internal/config"
)

func main() {
	// Optional .env for local runs; the environment wins when both are set
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "uxstat",
		Short: "UX research analytics over card sorts, surveys, and audits",
	}

	rootCmd.AddCommand(
		newSortCmd(),
		newCrossMethodCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSortCmd() *cobra.Command {
	var linkage string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "sort [study-file]",
		Short: "Run the card-sort analysis pipeline on a study file",
		Long: `Run the full card-sort pipeline: similarity matrix, dendrogram,
per-card agreement, Cohen's kappa, outlier detection, and data quality.

Accepts an .xlsx workbook or a .csv card-sort export; the JSON report goes
to stdout.

Example: uxstat sort study.xlsx --linkage average --threshold 0.8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			if err := applySortOverrides(cfg, linkage, threshold); err != nil {
				return err
			}
			return runSort(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&linkage, "linkage", "", "Clustering linkage: average, single, or complete")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Completeness threshold in (0, 1]")

	return cmd
}

func newCrossMethodCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crossmethod [study-file]",
		Short: "Correlate findings across research methods",
		Long: `Extract per-method participant scores, correlate every method pair
with enough shared participants, and report accessibility issue overlap.

Requires an .xlsx workbook; CSV exports carry card sorts only.

Example: uxstat crossmethod study.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			return runCrossMethod(cmd.Context(), cfg)
		},
	}
	return cmd
}

// applySortOverrides layers the sort command's flags over the loaded config
// and re-validates, so a flag cannot smuggle in a value the environment path
// would reject.
func applySortOverrides(cfg *config.Config, linkage string, threshold float64) error {
	if linkage != "" {
		parsed, err := cluster.ParseLinkage(linkage)
		if err != nil {
			return err
		}
		cfg.Analysis.Linkage = parsed
	}
	if threshold != 0 {
		cfg.Analysis.CompletenessThreshold = threshold
	}
	return cfg.Validate()
}

// loadConfig builds the config from the environment, with a positional file
// argument overriding STUDY_FILE.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Paths.StudyFile = args[0]
	}
	if cfg.Paths.StudyFile == "" {
		return nil, fmt.Errorf("no study file: pass a path or set STUDY_FILE")
	}
	return cfg, nil
}

func runSort(ctx context.Context, cfg *config.Config) error {
	logger := internal.DefaultLogger

	reader := excel.NewStudyReader(excel.NewStudyFileConfig(cfg.Paths.StudyFile), logger)
	results, err := reader.ReadCardSorts(ctx)
	if err != nil {
		return err
	}

	service, err := app.NewSortAnalysisService(app.SortAnalysisOptions{
		CompletenessThreshold: cfg.Analysis.CompletenessThreshold,
		Linkage:               cfg.Analysis.Linkage,
	}, logger)
	if err != nil {
		return err
	}

	report, err := service.Analyze(ctx, results)
	if err != nil {
		return err
	}
	return writeJSON(report)
}

func runCrossMethod(ctx context.Context, cfg *config.Config) error {
	logger := internal.DefaultLogger

	reader := excel.NewStudyReader(excel.NewStudyFileConfig(cfg.Paths.StudyFile), logger)
	results, err := reader.ReadResultSet(ctx)
	if err != nil {
		return err
	}

	service := app.NewCrossMethodService(cfg.Accessibility, nil, logger)
	analysis, err := service.Analyze(ctx, results)
	if err != nil {
		return err
	}
	return writeJSON(analysis)
}

func writeJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
