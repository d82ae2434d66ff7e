// Package schemas embeds the JSON Schemas for the engine's data files.
package schemas

import "embed"

// Schema file names.
const (
	Ontology  = "ontology.schema.json"
	Overrides = "overrides.schema.json"
)

//go:embed *.schema.json
var files embed.FS

// Read returns the raw content of an embedded schema.
func Read(name string) ([]byte, error) {
	return files.ReadFile(name)
}
