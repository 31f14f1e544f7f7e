// Package prompts holds the templates sent to the scoring and generation
// models. Templates live in JSON files embedded at build time, one file per
// concern, keyed by purpose within the file.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var templateFiles embed.FS

var (
	loadOnce  sync.Once
	templates map[string]map[string]string
	loadErr   error
)

// load parses every embedded template file once. A malformed file is a build
// asset defect and surfaces on the first Get.
func load() {
	templates = make(map[string]map[string]string)

	entries, err := templateFiles.ReadDir(".")
	if err != nil {
		loadErr = fmt.Errorf("reading embedded prompt templates: %w", err)
		return
	}

	for _, entry := range entries {
		data, err := templateFiles.ReadFile(entry.Name())
		if err != nil {
			loadErr = fmt.Errorf("reading prompt file %s: %w", entry.Name(), err)
			return
		}

		var set map[string]string
		if err := json.Unmarshal(data, &set); err != nil {
			loadErr = fmt.Errorf("parsing prompt file %s: %w", entry.Name(), err)
			return
		}
		templates[entry.Name()] = set
	}
}

// Get returns the template stored under key in the named file
// (e.g. "scoring.json", "semantic-similarity").
func Get(filename, key string) (string, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return "", loadErr
	}

	set, ok := templates[filename]
	if !ok {
		return "", fmt.Errorf("no prompt file %s", filename)
	}
	template, ok := set[key]
	if !ok {
		return "", fmt.Errorf("no prompt %q in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for templates required at startup; a missing one panics.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("prompt template: %v", err))
	}
	return template
}

// Format substitutes {{.Key}} placeholders with the given values.
// Placeholders without a value are left intact.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
