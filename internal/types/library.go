package types

// LibraryKind distinguishes the two independent competency libraries.
type LibraryKind string

// Library kinds. The technical library is the mapping source; the leadership
// library is an overlap reference only and never a mapping target.
const (
	LibraryTechnical  LibraryKind = "technical"
	LibraryLeadership LibraryKind = "leadership"
)

// CompetencyLibraryEntry is one raw competency as supplied by a source library.
type CompetencyLibraryEntry struct {
	CompetencyID string   `json:"competency_id"`
	Name         string   `json:"name"`
	Definition   string   `json:"definition"`
	Indicators   []string `json:"indicators,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Evidence     string   `json:"evidence,omitempty"`
}

// CompetencyLibrary is an ordered set of entries from a single source.
type CompetencyLibrary struct {
	Kind    LibraryKind              `json:"kind"`
	Entries []CompetencyLibraryEntry `json:"entries"`
}

// EntryByID returns the entry with the given competency ID, or false if absent.
func (l *CompetencyLibrary) EntryByID(id string) (CompetencyLibraryEntry, bool) {
	for _, e := range l.Entries {
		if e.CompetencyID == id {
			return e, true
		}
	}
	return CompetencyLibraryEntry{}, false
}
