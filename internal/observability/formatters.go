// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/competency-mapper/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobs outputs a summary of the ingested jobs and extraction warnings.
func (p *Printer) PrintJobs(result *types.ExtractionResult) {
	if result == nil || len(result.Jobs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Jobs ingested: %d\n\n", len(result.Jobs)))

	count := min(len(result.Jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := result.Jobs[i]
		sb.WriteString(fmt.Sprintf("%s  %s", job.JobID, job.Title))
		if job.Level != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", job.Level))
		}
		sb.WriteString(fmt.Sprintf("\n    %d responsibilities\n", len(job.Responsibilities)))
	}
	if len(result.Jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Jobs)-maxItemsToShow))
	}

	if len(result.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("\nWarnings: %d\n", len(result.Warnings)))
		wcount := min(len(result.Warnings), 3)
		for i := 0; i < wcount; i++ {
			w := result.Warnings[i]
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", w.Severity, w.Message))
		}
	}

	p.printBox("INGESTED JOBS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMapping outputs the candidate mapping summary for one job.
func (p *Printer) PrintMapping(result *types.MappingResult) {
	if result == nil || len(result.Mappings) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Responsibilities mapped: %d\n", len(result.Mappings)-len(result.Unmapped)))
	sb.WriteString(fmt.Sprintf("Unmapped: %d (%.0f%%)\n\n", len(result.Unmapped), result.UnmappedRate()*100))

	count := min(len(result.Mappings), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := result.Mappings[i]
		if top, ok := m.Top(); ok {
			sb.WriteString(fmt.Sprintf("%s → %s (%.2f)", m.ResponsibilityID, top.CompetencyID, top.RelevanceScore))
			if top.LowConfidence {
				sb.WriteString(" [low confidence]")
			}
			sb.WriteString("\n")
		} else {
			sb.WriteString(fmt.Sprintf("%s → unmapped\n", m.ResponsibilityID))
		}
	}
	if len(result.Mappings) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Mappings)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("MAPPING %s", result.JobID), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAudit outputs the overlap audit summary for one job.
func (p *Printer) PrintAudit(audit *types.JobOverlapAudit) {
	if audit == nil {
		return
	}

	var sb strings.Builder
	status := "FAILED"
	if audit.AuditPassed {
		status = "PASSED"
	}
	sb.WriteString(fmt.Sprintf("Audit: %s\n", status))

	if len(audit.OverlapFlags) > 0 {
		sb.WriteString(fmt.Sprintf("\nOverlap flags: %d\n", len(audit.OverlapFlags)))
		count := min(len(audit.OverlapFlags), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := audit.OverlapFlags[i]
			sb.WriteString(fmt.Sprintf("  %s %s → %s (%.2f)\n", f.Severity, f.CompetencyID, f.TargetID, f.Similarity))
		}
	}

	if len(audit.DistinctnessFlags) > 0 {
		sb.WriteString(fmt.Sprintf("\nDistinctness conflicts: %d\n", len(audit.DistinctnessFlags)))
		count := min(len(audit.DistinctnessFlags), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := audit.DistinctnessFlags[i]
			sb.WriteString(fmt.Sprintf("  %s %s / %s (%.2f)\n", f.Conflict, f.FirstID, f.SecondID, f.Similarity))
		}
	}

	p.printBox(fmt.Sprintf("OVERLAP AUDIT %s", audit.JobID), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRanking outputs the top-N selection with scores and coverage.
func (p *Printer) PrintRanking(result *types.RankingResult) {
	if result == nil || len(result.Ranked) == 0 {
		return
	}

	var sb strings.Builder
	for _, rc := range result.Ranked {
		name := rc.Competency.Name
		if len(name) > 32 {
			name = name[:29] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", rc.Rank, name))
		sb.WriteString(fmt.Sprintf("    Score: %.3f  Traces: %d\n", rc.CriticalityScore, len(rc.Competency.Traces)))
	}

	sb.WriteString(fmt.Sprintf("\nCoverage: %d/%d responsibilities (%.0f%%)",
		result.Coverage.CoveredCount, result.Coverage.TotalResponsibilities, result.Coverage.CoverageRate*100))

	p.printBox(fmt.Sprintf("TOP %d COMPETENCIES %s", len(result.Ranked), result.JobID), sb.String())
}

// PrintRunState outputs the final run summary with per-job outcomes and flags.
func (p *Printer) PrintRunState(state *types.RunState) {
	if state == nil {
		return
	}

	var sb strings.Builder
	done, failed := 0, 0
	for _, j := range state.Jobs {
		if j.Failed() {
			failed++
		} else if j.LastStage == types.StageDone {
			done++
		}
	}
	sb.WriteString(fmt.Sprintf("Jobs: %d done, %d failed, %d total\n", done, failed, len(state.Jobs)))

	blocking := state.BlockingFlags()
	if len(blocking) > 0 {
		sb.WriteString(fmt.Sprintf("\nBlocking flags: %d\n", len(blocking)))
		count := min(len(blocking), maxItemsToShow)
		for i := 0; i < count; i++ {
			f := blocking[i]
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", f.Severity, f.Code, f.Message))
		}
	}

	p.printBox(fmt.Sprintf("RUN %s", state.RunID), strings.TrimSuffix(sb.String(), "\n"))
}
