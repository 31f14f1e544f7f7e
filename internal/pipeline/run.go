package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/competency-mapper/internal/config"
	"github.com/jonathan/competency-mapper/internal/ingestion"
	"github.com/jonathan/competency-mapper/internal/llm"
	"github.com/jonathan/competency-mapper/internal/observability"
	"github.com/jonathan/competency-mapper/internal/scoring"
	"github.com/jonathan/competency-mapper/internal/store"
	"github.com/jonathan/competency-mapper/internal/types"
)

// RunOptions holds configuration for a full CLI-driven run.
type RunOptions struct {
	JobsPath       string
	LibraryPath    string
	LeadershipPath string
	APIKey         string
	DatabaseURL    string
	Workers        int
	Lenient        bool
	Verbose        bool
	Thresholds     config.Thresholds
	OnProgress     ProgressCallback
}

// RunFromFiles loads the input CSVs, wires the oracle and store, and executes
// the pipeline. Without an API key the run degrades to the deterministic
// offline oracle; without a reachable database it runs without persistence.
func RunFromFiles(ctx context.Context, opts RunOptions) (*types.RunState, error) {
	printer := observability.NewPrinter(os.Stdout)

	fmt.Printf("Step 1/4: Ingesting jobs from %s...\n", opts.JobsPath)
	extraction, err := ingestion.LoadJobs(opts.JobsPath)
	if err != nil {
		return nil, fmt.Errorf("job ingestion failed: %w", err)
	}
	if opts.Verbose {
		printer.PrintJobs(extraction)
	}

	fmt.Printf("Step 2/4: Loading competency libraries...\n")
	technical, err := ingestion.LoadLibrary(opts.LibraryPath, types.LibraryTechnical)
	if err != nil {
		return nil, fmt.Errorf("technical library ingestion failed: %w", err)
	}

	var leadership *types.CompetencyLibrary
	if opts.LeadershipPath != "" {
		leadership, err = ingestion.LoadLibrary(opts.LeadershipPath, types.LibraryLeadership)
		if err != nil {
			return nil, fmt.Errorf("leadership library ingestion failed: %w", err)
		}
	} else {
		fmt.Printf("Warning: no leadership library provided; cross-library audit disabled\n")
	}

	fmt.Printf("Step 3/4: Preparing scoring oracle...\n")
	oracle, closeOracle, err := buildOracle(ctx, opts.APIKey)
	if err != nil {
		return nil, err
	}
	defer closeOracle()

	var st store.Store
	if opts.DatabaseURL != "" {
		pg, err := store.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without persistence...\n")
		} else {
			st = pg
			defer pg.Close()
		}
	}

	fmt.Printf("Step 4/4: Processing %d job(s)...\n", len(extraction.Jobs))
	p := New(Options{
		Oracle:     oracle,
		Store:      st,
		Thresholds: opts.Thresholds,
		Workers:    opts.Workers,
		Lenient:    opts.Lenient,
		OnProgress: opts.OnProgress,
	})

	state, err := p.Run(ctx, extraction, technical, leadership)
	if state != nil {
		printer.PrintRunState(state)
		if opts.Verbose {
			for _, job := range state.Jobs {
				printer.PrintRanking(job.Ranking)
			}
		}
	}
	return state, err
}

// buildOracle returns the LLM-backed oracle when an API key is present and
// the deterministic offline oracle otherwise.
func buildOracle(ctx context.Context, apiKey string) (scoring.Oracle, func(), error) {
	if apiKey == "" {
		fmt.Printf("Warning: no API key; semantic scoring degrades to lexical overlap\n")
		return &scoring.StaticOracle{}, func() {}, nil
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	return scoring.NewLLMOracle(client), func() { _ = client.Close() }, nil
}
