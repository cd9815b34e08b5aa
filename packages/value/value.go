package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Text is a scalar that accepts any JSON or YAML scalar and keeps its textual form.
// A status written as 200 and one written as "200" both decode to "200".
type Text string

func (t Text) String() string {
	return string(t)
}

// UnmarshalJSON keeps numbers and booleans in their literal form; null decodes to "".
func (t *Text) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	switch r.Type {
	case gjson.Null:
		*t = ""
	case gjson.String:
		*t = Text(r.String())
	default:
		*t = Text(strings.TrimSpace(r.Raw))
	}
	return nil
}

func (t *Text) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!null" {
			*t = ""
			return nil
		}
		*t = Text(node.Value)
		return nil
	}

	var decoded any
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*t = Text(Display(Stringify(decoded)))
	return nil
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}

// IsEmpty reports whether p is null or the empty string.
func IsEmpty(p *string) bool {
	return p == nil || *p == ""
}

// Display renders p for messages, using "null" for a nil pointer.
func Display(p *string) string {
	if p == nil {
		return "null"
	}
	return *p
}

// Equal reports whether both pointers are nil or point to identical text.
func Equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Stringify coerces v to the comparator's domain. Structured values are
// serialized as JSON, everything else is converted to its textual form.
func Stringify(v any) *string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return &val
	case *string:
		if val == nil {
			return nil
		}
		s := *val
		return &s
	case []byte:
		s := string(val)
		return &s
	}

	if IsStructured(v) {
		s, err := JSON(v)
		if err != nil {
			s = fmt.Sprint(v)
		}
		return &s
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	return &s
}

// IsStructured reports whether v is an object or array value.
func IsStructured(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	case reflect.Pointer:
		rv := reflect.ValueOf(v)
		return !rv.IsNil() && IsStructured(rv.Elem().Interface())
	default:
		return false
	}
}

// JSON serializes v without HTML escaping and without a trailing newline.
func JSON(v any) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Number parses p as a decimal number. "Infinity" with an optional sign is
// the only accepted spelling of infinity; NaN, hex floats, underscores and
// other parser shorthands are rejected along with null, empty and
// non-numeric text.
func Number(p *string) (float64, bool) {
	if p == nil {
		return 0, false
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return 0, false
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if strings.Trim(s, "0123456789.eE+-") != "" {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
