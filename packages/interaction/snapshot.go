package interaction

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/value"
	"github.com/jinzhu/copier"
)

// Body is the response payload. Data holds a decoded JSON value, raw text,
// or nil when the response carried no body.
type Body struct {
	Data any   `json:"data" yaml:"data"`
	Size int64 `json:"size" yaml:"size"`
}

// Text serializes the body for comparison: JSON for structured data,
// identity for text and nil for a null body.
func (b Body) Text() *string {
	return value.Stringify(b.Data)
}

// Snapshot is the captured request/response data an assertion batch runs against.
type Snapshot struct {
	Status         value.Text        `json:"status" yaml:"status"`
	Duration       int64             `json:"duration" yaml:"duration"`
	ResponseHeader Header            `json:"responseHeader" yaml:"responseHeader"`
	ResponseBody   Body              `json:"responseBody" yaml:"responseBody"`
	RequestHeader  map[string]string `json:"requestHeader,omitempty" yaml:"requestHeader,omitempty"`
	RequestQuery   map[string]string `json:"requestQuery,omitempty" yaml:"requestQuery,omitempty"`
	RequestForm    map[string]string `json:"requestForm,omitempty" yaml:"requestForm,omitempty"`
	RequestPath    map[string]string `json:"requestPath,omitempty" yaml:"requestPath,omitempty"`
}

// StatusText returns the status code as text.
func (s *Snapshot) StatusText() string {
	return strings.TrimSpace(s.Status.String())
}

// DurationText returns the duration in milliseconds as text.
func (s *Snapshot) DurationText() string {
	return strconv.FormatInt(s.Duration, 10)
}

// BodySizeText returns the body size in bytes as text.
func (s *Snapshot) BodySizeText() string {
	return strconv.FormatInt(s.ResponseBody.Size, 10)
}

// TotalSize approximates the response wire size: header block plus body.
func (s *Snapshot) TotalSize() int64 {
	return s.ResponseHeader.ByteSize() + s.ResponseBody.Size
}

// Clone returns a deep copy that shares no mutable state with s.
func (s *Snapshot) Clone() (*Snapshot, error) {
	if s == nil {
		return nil, nil
	}
	dst := &Snapshot{}
	if err := copier.CopyWithOption(dst, s, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy snapshot: %w", err)
	}
	dst.ResponseBody.Data = CloneData(s.ResponseBody.Data)
	return dst, nil
}

// CloneData deep-copies a decoded JSON value.
func CloneData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = CloneData(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneData(item)
		}
		return out
	case []byte:
		out := make([]byte, len(val))
		copy(out, val)
		return out
	default:
		return v
	}
}

// LookupFold finds name in m, preferring an exact key and falling back to a
// case-insensitive match.
func LookupFold(m map[string]string, name string) (string, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.EqualFold(k, name) {
			return m[k], true
		}
	}
	return "", false
}
