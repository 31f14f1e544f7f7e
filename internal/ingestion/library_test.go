package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/competency-mapper/internal/types"
)

const libraryCSV = `Competency Name,Definition,Indicators,Tags
Data Engineering,Designs and operates data pipelines and storage layers.,"Builds ETL workflows; Monitors pipeline health
- Tunes query performance","data; infrastructure"
Cloud Architecture,Designs resilient cloud infrastructure.,,cloud
`

func TestReadLibrary_ParsesEntries(t *testing.T) {
	lib, err := ReadLibrary(strings.NewReader(libraryCSV), types.LibraryTechnical)
	require.NoError(t, err)
	assert.Equal(t, types.LibraryTechnical, lib.Kind)
	require.Len(t, lib.Entries, 2)

	entry := lib.Entries[0]
	assert.Equal(t, "tech-001", entry.CompetencyID)
	assert.Equal(t, "Data Engineering", entry.Name)
	assert.Contains(t, entry.Definition, "data pipelines")
	assert.Equal(t, []string{"Builds ETL workflows", "Monitors pipeline health", "Tunes query performance"}, entry.Indicators)
	assert.Equal(t, []string{"data", "infrastructure"}, entry.Tags)

	// Entry without indicators or tags still parses
	assert.Equal(t, "tech-002", lib.Entries[1].CompetencyID)
	assert.Empty(t, lib.Entries[1].Indicators)
}

func TestReadLibrary_LeadershipPrefix(t *testing.T) {
	lib, err := ReadLibrary(strings.NewReader(libraryCSV), types.LibraryLeadership)
	require.NoError(t, err)
	assert.Equal(t, "lead-001", lib.Entries[0].CompetencyID)
}

func TestReadLibrary_SkipsUnnamedRows(t *testing.T) {
	csv := "Competency Name,Definition\n,orphan definition\nReal,def\n"
	lib, err := ReadLibrary(strings.NewReader(csv), types.LibraryTechnical)
	require.NoError(t, err)
	require.Len(t, lib.Entries, 1)
	assert.Equal(t, "Real", lib.Entries[0].Name)
}

func TestReadLibrary_MissingRequiredColumns(t *testing.T) {
	_, err := ReadLibrary(strings.NewReader("Name,Text\na,b\n"), types.LibraryTechnical)
	assert.Error(t, err)

	_, err = ReadLibrary(strings.NewReader("Competency Name,Text\na,b\n"), types.LibraryTechnical)
	assert.Error(t, err)
}
