package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/competency-mapper/internal/types"
)

var refdocsCommand = &cobra.Command{
	Use:   "refdocs",
	Short: "Manage benchmarking reference documents",
	Long:  "Lists, searches, and adds the external reference documents (industry frameworks, published competency models) used by the benchmarking stage.",
}

var refdocsDatabaseURL string

var refdocsListCommand = &cobra.Command{
	Use:   "list",
	Short: "List all reference documents",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx := context.Background()
		st, err := connectStore(ctx, refdocsDatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		docs, err := st.ListReferenceDocuments(ctx)
		if err != nil {
			return err
		}
		printDocs(docs)
		return nil
	},
}

var refdocsSearchCommand = &cobra.Command{
	Use:   "search <query>",
	Short: "Search reference documents by title, source, or excerpt",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		st, err := connectStore(ctx, refdocsDatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		docs, err := st.SearchReferenceDocuments(ctx, args[0])
		if err != nil {
			return err
		}
		printDocs(docs)
		return nil
	},
}

var (
	refdocTitle   string
	refdocSource  string
	refdocExcerpt string
	refdocTags    []string
)

var refdocsAddCommand = &cobra.Command{
	Use:   "add",
	Short: "Add a reference document",
	RunE: func(_ *cobra.Command, _ []string) error {
		if refdocTitle == "" || refdocExcerpt == "" {
			return fmt.Errorf("--title and --excerpt are required")
		}

		ctx := context.Background()
		st, err := connectStore(ctx, refdocsDatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		docID, err := st.AddReferenceDocument(ctx, types.ReferenceDocument{
			Title:   refdocTitle,
			Source:  refdocSource,
			Excerpt: refdocExcerpt,
			Tags:    refdocTags,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added reference document: %s\n", docID)
		return nil
	},
}

func init() {
	refdocsCommand.PersistentFlags().StringVar(&refdocsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	refdocsAddCommand.Flags().StringVar(&refdocTitle, "title", "", "Document title")
	refdocsAddCommand.Flags().StringVar(&refdocSource, "source", "", "Document source (framework or publisher)")
	refdocsAddCommand.Flags().StringVar(&refdocExcerpt, "excerpt", "", "Relevant excerpt used for benchmarking")
	refdocsAddCommand.Flags().StringSliceVar(&refdocTags, "tags", nil, "Comma-separated tags")

	refdocsCommand.AddCommand(refdocsListCommand, refdocsSearchCommand, refdocsAddCommand)
	rootCmd.AddCommand(refdocsCommand)
}

func printDocs(docs []types.ReferenceDocument) {
	if len(docs) == 0 {
		fmt.Println("No reference documents found.")
		return
	}
	for _, d := range docs {
		fmt.Printf("%s  %s", d.DocID, d.Title)
		if d.Source != "" {
			fmt.Printf(" (%s)", d.Source)
		}
		if len(d.Tags) > 0 {
			fmt.Printf("  [%s]", strings.Join(d.Tags, ", "))
		}
		fmt.Println()
	}
}
