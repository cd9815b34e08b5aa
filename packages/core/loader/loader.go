// Package loader reads snapshots and assertion batches from JSON or YAML
// files and validates them against the embedded JSON Schemas before
// decoding.
package loader

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/assertions"
	"github.com/abdul-hamid-achik/hitcheck/packages/interaction"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema/*.json
var schemas embed.FS

// Format is the encoding of an input file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the format from a file extension; anything that is not
// .yaml or .yml is read as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SchemaError lists every schema violation of a document.
type SchemaError struct {
	Document string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match schema: %s", e.Document, strings.Join(e.Problems, "; "))
}

// Batch is the object form of an assertion file.
type Batch struct {
	Assertions []assertions.Config `json:"assertions" yaml:"assertions"`
}

// LoadSnapshot reads and validates a snapshot file.
func LoadSnapshot(path string) (*interaction.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap, err := ParseSnapshot(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// ParseSnapshot validates and decodes a snapshot document.
func ParseSnapshot(data []byte, format Format) (*interaction.Snapshot, error) {
	if err := validate("snapshot", "schema/snapshot.json", data, format); err != nil {
		return nil, err
	}

	snap := &interaction.Snapshot{}
	if err := decode(data, format, snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// LoadAssertions reads and validates an assertion batch file.
func LoadAssertions(path string) ([]assertions.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assertions: %w", err)
	}
	configs, err := ParseAssertions(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return configs, nil
}

// ParseAssertions validates and decodes an assertion batch given either as
// an array or as an object with an "assertions" array.
func ParseAssertions(data []byte, format Format) ([]assertions.Config, error) {
	if err := validate("assertions", "schema/assertions.json", data, format); err != nil {
		return nil, err
	}

	if isArray(data, format) {
		var configs []assertions.Config
		if err := decode(data, format, &configs); err != nil {
			return nil, fmt.Errorf("failed to decode assertions: %w", err)
		}
		return configs, nil
	}

	var batch Batch
	if err := decode(data, format, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode assertions: %w", err)
	}
	return batch.Assertions, nil
}

func decode(data []byte, format Format, v any) error {
	if format == FormatYAML {
		return yaml.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}

func isArray(data []byte, format Format) bool {
	if format == FormatYAML {
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil || len(node.Content) == 0 {
			return false
		}
		return node.Content[0].Kind == yaml.SequenceNode
	}
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func validate(document, schemaPath string, data []byte, format Format) error {
	schema, err := schemas.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read %s schema: %w", document, err)
	}

	var doc gojsonschema.JSONLoader
	if format == FormatYAML {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}
		doc = gojsonschema.NewGoLoader(generic)
	} else {
		if !json.Valid(data) {
			return fmt.Errorf("invalid JSON in %s document", document)
		}
		doc = gojsonschema.NewBytesLoader(data)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), doc)
	if err != nil {
		return fmt.Errorf("failed to validate %s: %w", document, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return &SchemaError{Document: document, Problems: problems}
}
