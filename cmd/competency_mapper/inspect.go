package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/competency-mapper/internal/observability"
	"github.com/jonathan/competency-mapper/internal/store"
)

var inspectCommand = &cobra.Command{
	Use:   "inspect [run-id]",
	Short: "Inspect a saved pipeline run",
	Long:  "Shows a saved run's outcome, per-job gate decisions and flags, and the artifacts stored for it. Without a run ID, lists recent runs.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  inspectCmd,
}

var inspectDatabaseURL string

func init() {
	inspectCommand.Flags().StringVar(&inspectDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(inspectCommand)
}

func inspectCmd(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := connectStore(ctx, inspectDatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 0 {
		return listRecentRuns(ctx, st)
	}

	runID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid run ID %q: %w", args[0], err)
	}

	run, err := st.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	fmt.Printf("Run:     %s\n", run.ID)
	fmt.Printf("Label:   %s\n", run.Label)
	fmt.Printf("Status:  %s\n", run.Status)
	fmt.Printf("Started: %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.CompletedAt != nil {
		fmt.Printf("Ended:   %s\n", run.CompletedAt.Format("2006-01-02 15:04:05"))
	}

	state, err := st.GetRunState(ctx, runID)
	if err != nil {
		return err
	}
	if state != nil {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintRunState(state)
		for _, job := range state.Jobs {
			for _, decision := range job.Gates {
				fmt.Printf("%s  gate %-12s → %s\n", job.JobID, decision.Gate, decision.Route)
			}
		}
	}

	artifacts, err := st.ListArtifacts(ctx, runID)
	if err != nil {
		return err
	}
	if len(artifacts) > 0 {
		fmt.Printf("\nArtifacts:\n")
		for _, a := range artifacts {
			fmt.Printf("  %-10s %-12s v%d  %s\n", a.JobID, a.Stage, a.Version, a.CreatedAt.Format("15:04:05"))
		}
	}

	return nil
}

func listRecentRuns(ctx context.Context, st store.Store) error {
	runs, err := st.ListRuns(ctx, 20)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs found.")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-10s %s  %s\n", run.ID, run.Status, run.CreatedAt.Format("2006-01-02 15:04"), run.Label)
	}
	return nil
}

// connectStore resolves the database URL and opens a Postgres store.
func connectStore(ctx context.Context, flagURL string) (store.Store, error) {
	databaseURL := flagURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	return store.Connect(ctx, databaseURL)
}
