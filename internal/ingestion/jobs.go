// Package ingestion converts tabular source files into jobs and competency
// libraries. It is the boundary between raw documents and the typed pipeline:
// everything downstream works only with the records produced here.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/jonathan/competency-mapper/internal/types"
)

// Column headers recognized in job description files. Matching is
// case-insensitive and ignores surrounding whitespace.
const (
	colJobTitle         = "job title"
	colJobFamily        = "job family"
	colJobLevel         = "job level"
	colSummary          = "summary"
	colResponsibilities = "responsibilities"
)

var numberedItem = regexp.MustCompile(`^\s*\d+[.)]\s+`)

// LoadJobs reads job descriptions from a CSV file. Rows missing a summary or
// responsibilities are still ingested, with warnings recorded for the
// extraction gate.
func LoadJobs(path string) (*types.ExtractionResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open jobs file %s: %w", path, err)
	}
	defer f.Close()

	result, err := ReadJobs(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs from %s: %w", path, err)
	}
	return result, nil
}

// ReadJobs parses job rows from CSV content.
func ReadJobs(r io.Reader) (*types.ExtractionResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols := indexColumns(header)
	titleIdx, ok := cols[colJobTitle]
	if !ok {
		return nil, fmt.Errorf("jobs file is missing a %q column", colJobTitle)
	}

	result := &types.ExtractionResult{}
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNum+1, err)
		}
		rowNum++

		title := strings.TrimSpace(field(row, titleIdx))
		if title == "" {
			result.Warnings = append(result.Warnings, types.ExtractionWarning{
				Type:     types.WarnOther,
				Severity: types.SeverityInfo,
				Message:  fmt.Sprintf("row %d skipped: empty job title", rowNum),
			})
			continue
		}

		jobID := fmt.Sprintf("job-%03d", len(result.Jobs)+1)
		job := types.Job{
			JobID:   jobID,
			Title:   title,
			Family:  strings.TrimSpace(field(row, colIndex(cols, colJobFamily))),
			Level:   strings.TrimSpace(field(row, colIndex(cols, colJobLevel))),
			Summary: strings.TrimSpace(field(row, colIndex(cols, colSummary))),
		}

		statements := SplitResponsibilities(field(row, colIndex(cols, colResponsibilities)))
		for i, text := range statements {
			job.Responsibilities = append(job.Responsibilities, types.Responsibility{
				ResponsibilityID: fmt.Sprintf("%s-r%02d", jobID, i+1),
				RawText:          text,
				NormalizedText:   normalizeText(text),
				PriorityHint:     i + 1,
			})
		}

		if job.Summary == "" {
			result.Warnings = append(result.Warnings, types.ExtractionWarning{
				JobID:    jobID,
				Type:     types.WarnMissingSummary,
				Severity: types.SeverityWarning,
				Message:  fmt.Sprintf("job %q has no summary", title),
			})
		}
		if len(job.Responsibilities) == 0 {
			result.Warnings = append(result.Warnings, types.ExtractionWarning{
				JobID:    jobID,
				Type:     types.WarnNoResponsibilities,
				Severity: types.SeverityError,
				Message:  fmt.Sprintf("job %q has no responsibilities", title),
			})
		}

		result.Jobs = append(result.Jobs, job)
	}

	return result, nil
}

// SplitResponsibilities breaks a raw responsibilities cell into individual
// statements. Statements may be separated by newlines, bullet markers, or
// numbered prefixes ("1." / "1)").
func SplitResponsibilities(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•◦ \t")
		line = numberedItem.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// normalizeText lowercases and collapses internal whitespace for scoring.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// indexColumns maps normalized header names to their positions.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

// colIndex returns the position of a column, or -1 when absent.
func colIndex(cols map[string]int, name string) int {
	if idx, ok := cols[name]; ok {
		return idx
	}
	return -1
}

// field returns the cell at idx, or empty when the row is short or the
// column is absent (idx < 0).
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
