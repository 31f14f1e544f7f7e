package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/competency-mapper/internal/types"
)

// Column headers recognized in competency library files.
const (
	colCompetencyName = "competency name"
	colDefinition     = "definition"
	colIndicators     = "indicators"
	colTags           = "tags"
)

// LoadLibrary reads a competency library from a CSV file. The same format
// serves both the technical and the leadership/core libraries; the kind
// determines the generated ID prefix.
func LoadLibrary(path string, kind types.LibraryKind) (*types.CompetencyLibrary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library file %s: %w", path, err)
	}
	defer f.Close()

	lib, err := ReadLibrary(f, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to read library from %s: %w", path, err)
	}
	return lib, nil
}

// ReadLibrary parses library rows from CSV content.
func ReadLibrary(r io.Reader, kind types.LibraryKind) (*types.CompetencyLibrary, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols := indexColumns(header)
	nameIdx, ok := cols[colCompetencyName]
	if !ok {
		return nil, fmt.Errorf("library file is missing a %q column", colCompetencyName)
	}
	defIdx, ok := cols[colDefinition]
	if !ok {
		return nil, fmt.Errorf("library file is missing a %q column", colDefinition)
	}

	prefix := "tech"
	if kind == types.LibraryLeadership {
		prefix = "lead"
	}

	lib := &types.CompetencyLibrary{Kind: kind}
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

		name := strings.TrimSpace(field(row, nameIdx))
		if name == "" {
			continue
		}

		lib.Entries = append(lib.Entries, types.CompetencyLibraryEntry{
			CompetencyID: fmt.Sprintf("%s-%03d", prefix, len(lib.Entries)+1),
			Name:         name,
			Definition:   strings.TrimSpace(field(row, defIdx)),
			Indicators:   splitList(field(row, colIndex(cols, colIndicators))),
			Tags:         splitList(field(row, colIndex(cols, colTags))),
		})
	}

	return lib, nil
}

// splitList breaks a cell into items separated by newlines or semicolons.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ';'
	}) {
		part = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(part), "-*• \t"))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
