package interaction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Field is a single header line.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Header is an ordered list of header fields. It decodes from a JSON or YAML
// object and keeps the document order of its keys.
type Header []Field

// NewHeader builds a Header from name/value pairs.
func NewHeader(pairs ...string) Header {
	h := make(Header, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		h = append(h, Field{Name: pairs[i], Value: pairs[i+1]})
	}
	return h
}

// Get looks a header up case-insensitively, returning the first match.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// ByteSize approximates the wire size of the header block as
// "Name: Value\r\n" per field.
func (h Header) ByteSize() int64 {
	var n int64
	for _, f := range h {
		n += int64(len(f.Name) + len(": ") + len(f.Value) + len("\r\n"))
	}
	return n
}

// Map returns the header as a plain map; later duplicates win.
func (h Header) Map() map[string]string {
	m := make(map[string]string, len(h))
	for _, f := range h {
		m[f.Name] = f.Value
	}
	return m
}

func (h Header) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (h *Header) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	switch {
	case r.Type == gjson.Null:
		*h = nil
		return nil
	case !r.IsObject():
		return fmt.Errorf("header must be a JSON object, got %s", r.Type)
	}

	fields := make(Header, 0)
	r.ForEach(func(key, val gjson.Result) bool {
		fields = append(fields, Field{Name: key.String(), Value: headerText(val)})
		return true
	})
	*h = fields
	return nil
}

func (h *Header) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("header must be a mapping, got line %d", node.Line)
	}
	fields := make(Header, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		fields = append(fields, Field{Name: node.Content[i].Value, Value: yamlHeaderText(node.Content[i+1])})
	}
	*h = fields
	return nil
}

// headerText flattens a decoded header value; repeated values are joined the
// way HTTP folds them.
func headerText(val gjson.Result) string {
	switch {
	case val.Type == gjson.String:
		return val.String()
	case val.Type == gjson.Null:
		return ""
	case val.IsArray():
		parts := make([]string, 0)
		for _, item := range val.Array() {
			parts = append(parts, headerText(item))
		}
		return strings.Join(parts, ", ")
	default:
		return val.Raw
	}
}

func yamlHeaderText(node *yaml.Node) string {
	if node.Kind != yaml.SequenceNode {
		return node.Value
	}
	parts := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		parts = append(parts, yamlHeaderText(item))
	}
	return strings.Join(parts, ", ")
}
