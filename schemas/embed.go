// Package schemas embeds the JSON Schema documents used to validate
// structured oracle responses.
package schemas

import (
	"embed"
	"fmt"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// ScoreResponse is the filename of the oracle score response schema.
const ScoreResponse = "score_response.schema.json"

// MustRead returns the content of an embedded schema file, panicking if absent.
// Schemas are compile-time assets; a missing one is a build defect.
func MustRead(name string) string {
	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded schema %s: %v", name, err))
	}
	return string(data)
}
