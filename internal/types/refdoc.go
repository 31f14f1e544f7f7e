package types

import "time"

// ReferenceDocument is an external benchmarking source: an industry framework,
// standard, or published competency model excerpt used to ground alignment
// scores and narratives.
type ReferenceDocument struct {
	DocID     string    `json:"doc_id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Excerpt   string    `json:"excerpt"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
