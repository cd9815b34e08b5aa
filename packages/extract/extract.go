package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/value"
)

// Method names an extraction technique.
type Method string

const (
	MethodRegex    Method = "REGEX"
	MethodXPath    Method = "XPATH"
	MethodJSONPath Method = "JSONPATH"
)

// ParseMethod normalizes a method name; "json_path", "JsonPath" and
// "jsonpath" all map to MethodJSONPath.
func ParseMethod(s string) (Method, bool) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	switch normalized {
	case "REGEX", "REGEXP":
		return MethodRegex, true
	case "XPATH":
		return MethodXPath, true
	case "JSONPATH":
		return MethodJSONPath, true
	default:
		return Method(s), false
	}
}

// MatchAll selects every occurrence; the value becomes a JSON array.
const MatchAll = -1

// DefaultRegexTimeout bounds a single regular expression evaluation.
const DefaultRegexTimeout = time.Second

// maxMatches caps how many occurrences are collected from one document.
const maxMatches = 10000

// Rule describes one extraction.
type Rule struct {
	Method       Method  `json:"method" yaml:"method"`
	Expression   string  `json:"expression" yaml:"expression"`
	MatchItem    int     `json:"matchItem,omitempty" yaml:"matchItem,omitempty"`
	DefaultValue *string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Result is the outcome of an extraction. Data is nil when nothing matched
// and no default value was configured, or when the selected occurrence is
// itself a JSON null; Matched tells the two apart.
type Result struct {
	Data         any
	Matched      int
	Message      string
	ErrorMessage string
}

// Text returns Data coerced to the comparator's domain.
func (r Result) Text() *string {
	return value.Stringify(r.Data)
}

// Extractor evaluates extraction rules. It holds no per-call state and is
// safe for concurrent use.
type Extractor struct {
	regexTimeout time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRegexTimeout sets the time budget of a regular expression evaluation.
func WithRegexTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.regexTimeout = d
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		regexTimeout: DefaultRegexTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = New()

// Extract runs rule against data with the default extractor.
func Extract(data any, rule Rule) Result {
	return defaultExtractor.Extract(data, rule)
}

func (e *Extractor) Extract(data any, rule Rule) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = rule.fallback("", fmt.Sprintf("%s extraction failed: %v", rule.Method, r))
		}
	}()

	if data == nil {
		return rule.fallback("no data to extract from", "")
	}
	if strings.TrimSpace(rule.Expression) == "" {
		return rule.fallback("", fmt.Sprintf("%s expression is empty", rule.Method))
	}

	method, ok := ParseMethod(string(rule.Method))
	if !ok {
		return rule.fallback("", fmt.Sprintf("unsupported extraction method %q", rule.Method))
	}

	var (
		values []any
		err    error
	)
	switch method {
	case MethodRegex:
		values, err = e.regex(data, rule.Expression)
	case MethodXPath:
		values, err = e.xpath(data, rule.Expression)
	case MethodJSONPath:
		values, err = e.jsonPath(data, rule.Expression)
	}
	if err != nil {
		return rule.fallback("", err.Error())
	}

	return rule.pick(values)
}

// pick applies the match item to the collected occurrences.
func (r Rule) pick(values []any) Result {
	if len(values) == 0 {
		return r.fallback(fmt.Sprintf("%s %q matched nothing", r.Method, r.Expression), "")
	}

	if r.MatchItem == MatchAll {
		return Result{
			Data:    values,
			Matched: len(values),
			Message: fmt.Sprintf("%d matches", len(values)),
		}
	}

	idx := r.MatchItem
	if idx == 0 {
		idx = 1
	}
	if idx < 0 || idx > len(values) {
		return r.fallback(fmt.Sprintf("match item %d out of range (%d matches)", r.MatchItem, len(values)), "")
	}
	return Result{Data: values[idx-1], Matched: len(values)}
}

func (r Rule) fallback(message, errMessage string) Result {
	result := Result{
		Message:      message,
		ErrorMessage: errMessage,
	}
	if r.DefaultValue != nil {
		result.Data = *r.DefaultValue
		if result.Message == "" {
			result.Message = "using default value"
		} else {
			result.Message += ", using default value"
		}
	}
	return result
}

// text renders data for text-based methods.
func text(data any) string {
	return value.Display(value.Stringify(data))
}
