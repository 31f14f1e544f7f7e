package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full competency mapping pipeline end-to-end",
	Long: `Orchestrates the entire mapping process per job: ingestion -> mapping -> normalization -> overlap audit -> remediation -> benchmarking -> criticality ranking.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath     string
	runJobs           string
	runLibrary        string
	runLeadership     string
	runAPIKey         string
	runDatabaseURL    string
	runWorkers        int
	runTopN           int
	runRelevanceFloor float64
	runMaterial       float64
	runMinor          float64
	runDuplicate      float64
	runUnmappedLimit  float64
	runCoverageFloor  float64
	runLenient        bool
	runVerbose        bool
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runJobs, "jobs", "j", "", "Path to job descriptions CSV")
	runCommand.Flags().StringVarP(&runLibrary, "library", "l", "", "Path to technical competency library CSV")
	runCommand.Flags().StringVar(&runLeadership, "leadership", "", "Path to leadership/core library CSV (enables cross-library audit)")
	runCommand.Flags().IntVar(&runWorkers, "workers", 0, "Worker pool size for job fan-out")
	runCommand.Flags().IntVar(&runTopN, "top-n", 0, "Number of competencies to select per job (6-10)")
	runCommand.Flags().Float64Var(&runRelevanceFloor, "relevance-floor", 0, "Minimum relevance for mapping candidates")
	runCommand.Flags().Float64Var(&runMaterial, "material-overlap", 0, "Material cross-library overlap threshold")
	runCommand.Flags().Float64Var(&runMinor, "minor-overlap", 0, "Minor cross-library overlap threshold")
	runCommand.Flags().Float64Var(&runDuplicate, "duplicate-pair", 0, "Within-job near-duplicate threshold")
	runCommand.Flags().Float64Var(&runUnmappedLimit, "unmapped-limit", 0, "Maximum tolerated unmapped responsibility rate")
	runCommand.Flags().Float64Var(&runCoverageFloor, "coverage-floor", 0, "Coverage rate below which the ranking gate warns")
	runCommand.Flags().BoolVar(&runLenient, "lenient", false, "Downgrade ERROR gate rules to WARNING")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for artifact persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveRunConfig(cmd)
	if err != nil {
		return err
	}

	thresholds, err := cfg.BuildThresholds()
	if err != nil {
		return err
	}

	state, err := pipeline.RunFromFiles(ctx, pipeline.RunOptions{
		JobsPath:       cfg.Jobs,
		LibraryPath:    cfg.Library,
		LeadershipPath: cfg.Leadership,
		APIKey:         cfg.APIKey,
		DatabaseURL:    cfg.DatabaseURL,
		Workers:        cfg.Workers,
		Lenient:        cfg.Lenient,
		Verbose:        cfg.Verbose,
		Thresholds:     thresholds,
	})
	if err != nil {
		return err
	}

	// Exit status mirrors the final run state
	if blocking := state.BlockingFlags(); len(blocking) > 0 {
		return fmt.Errorf("run finished with %d blocking flag(s)", len(blocking))
	}
	return nil
}

// resolveRunConfig merges the config file, CLI overrides, and environment.
func resolveRunConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
	}

	// CLI overrides take priority, but only when explicitly set
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = runJobs
	}
	if cmd.Flags().Changed("library") {
		cfg.Library = runLibrary
	}
	if cmd.Flags().Changed("leadership") {
		cfg.Leadership = runLeadership
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = runWorkers
	}
	if cmd.Flags().Changed("top-n") {
		cfg.TopN = runTopN
	}
	if cmd.Flags().Changed("relevance-floor") {
		cfg.RelevanceFloor = runRelevanceFloor
	}
	if cmd.Flags().Changed("material-overlap") {
		cfg.MaterialOverlap = runMaterial
	}
	if cmd.Flags().Changed("minor-overlap") {
		cfg.MinorOverlap = runMinor
	}
	if cmd.Flags().Changed("duplicate-pair") {
		cfg.DuplicatePair = runDuplicate
	}
	if cmd.Flags().Changed("unmapped-limit") {
		cfg.UnmappedRateLimit = runUnmappedLimit
	}
	if cmd.Flags().Changed("coverage-floor") {
		cfg.CoverageFloor = runCoverageFloor
	}
	if cmd.Flags().Changed("lenient") {
		cfg.Lenient = runLenient
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}

	if cfg.Jobs == "" {
		return cfg, fmt.Errorf("--jobs must be provided (via flag or config)")
	}
	if cfg.Library == "" {
		return cfg, fmt.Errorf("--library must be provided (via flag or config)")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}
