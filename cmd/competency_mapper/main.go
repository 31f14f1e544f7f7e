// Package main provides the competency mapper CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "competency_mapper",
	Short: "Competency mapping and criticality ranking engine",
	Long:  "Competency mapper builds technical competency profiles from job descriptions: it maps responsibilities against a competency library, audits overlap with the leadership library, benchmarks against reference documents, and ranks the most critical competencies per job.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
