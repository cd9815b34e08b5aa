package compare

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/value"
)

// Subject describes what is being compared; it only shapes messages.
type Subject struct {
	Type          string
	ParameterName string
	// Extracted is set when the expected value came from an extraction.
	Extracted bool
}

func (s Subject) label() string {
	name := strings.ToLower(s.Type)
	if name == "" {
		name = "value"
	}
	if s.ParameterName != "" {
		name += " " + s.ParameterName
	}
	return name
}

func (s Subject) expectedLabel() string {
	if s.Extracted {
		return "extracted expected value"
	}
	return "expected value"
}

// Outcome is the verdict for one comparison.
type Outcome struct {
	Failure bool   `json:"failure"`
	Message string `json:"message,omitempty"`
}

func pass() Outcome {
	return Outcome{}
}

func fail(format string, args ...any) Outcome {
	return Outcome{Failure: true, Message: fmt.Sprintf(format, args...)}
}

// Compare applies op to the observed value and the expected value.
// A nil pointer stands for null.
func Compare(actual *string, op Operator, expected *string, subject Subject) Outcome {
	switch op {
	case Contain, NotContain:
		return contain(actual, op, expected, subject)
	case Equal:
		if equal(actual, expected) {
			return pass()
		}
		return fail("%s: expected %s, got %s", subject.label(), quote(expected), quote(actual))
	case NotEqual:
		if !equal(actual, expected) {
			return pass()
		}
		return fail("%s: expected not to equal %s", subject.label(), quote(expected))
	case GreaterThan, GreaterThanEqual, LessThan, LessThanEqual:
		return numeric(actual, op, expected, subject)
	case IsEmpty:
		if value.IsEmpty(actual) {
			return pass()
		}
		return fail("%s: expected empty value, got %s", subject.label(), quote(actual))
	case NotEmpty:
		if !value.IsEmpty(actual) {
			return pass()
		}
		return fail("%s: expected a non-empty value, got %s", subject.label(), quote(actual))
	case IsNull:
		if actual == nil {
			return pass()
		}
		return fail("%s: expected null, got %s", subject.label(), quote(actual))
	case NotNull:
		if actual != nil {
			return pass()
		}
		return fail("%s: expected a non-null value", subject.label())
	case RegMatch, XPathMatch, JSONPathMatch:
		return matched(actual, op, expected, subject)
	default:
		return fail("unsupported assertion condition %q", op)
	}
}

func contain(actual *string, op Operator, expected *string, subject Subject) Outcome {
	if value.IsEmpty(actual) {
		return fail("%s: actual value is empty, containment cannot be checked", subject.label())
	}
	if value.IsEmpty(expected) {
		return fail("%s: %s is empty, containment cannot be checked", subject.label(), subject.expectedLabel())
	}

	found := strings.Contains(*actual, *expected)
	switch {
	case op == Contain && !found:
		return fail("%s: expected %s to contain %s", subject.label(), quote(actual), quote(expected))
	case op == NotContain && found:
		return fail("%s: expected %s not to contain %s", subject.label(), quote(actual), quote(expected))
	default:
		return pass()
	}
}

func numeric(actual *string, op Operator, expected *string, subject Subject) Outcome {
	got, ok := value.Number(actual)
	if !ok {
		return fail("%s: actual value %s is not a number", subject.label(), quote(actual))
	}
	want, ok := value.Number(expected)
	if !ok {
		return fail("%s: %s %s is not a number", subject.label(), subject.expectedLabel(), quote(expected))
	}

	var passed bool
	switch op {
	case GreaterThan:
		passed = got > want
	case GreaterThanEqual:
		passed = got >= want
	case LessThan:
		passed = got < want
	case LessThanEqual:
		passed = got <= want
	}
	if passed {
		return pass()
	}
	return fail("%s: expected %s %s %s", subject.label(), value.Display(actual), op.Symbol(), value.Display(expected))
}

// matched checks a value that was already obtained through REG_MATCH,
// XPATH_MATCH or JSON_PATH_MATCH: against the expected text when there is
// one, otherwise it only requires that the extraction produced something.
func matched(actual *string, op Operator, expected *string, subject Subject) Outcome {
	if !value.IsEmpty(expected) {
		if actual != nil && *actual == *expected {
			return pass()
		}
		return fail("%s: %s result %s does not equal %s", subject.label(), op, quote(actual), quote(expected))
	}
	if value.IsEmpty(actual) {
		return fail("%s: %s produced no value", subject.label(), op)
	}
	return pass()
}

// equal treats identical text, or JSON documents with the same structure, as equal.
func equal(a, b *string) bool {
	if value.Equal(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return sameDocument(*a, *b)
}

func sameDocument(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if !isContainer(a) || !isContainer(b) {
		return false
	}
	var da, db any
	if err := json.Unmarshal([]byte(a), &da); err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(b), &db); err != nil {
		return false
	}
	return reflect.DeepEqual(da, db)
}

func isContainer(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

func quote(p *string) string {
	if p == nil {
		return "null"
	}
	return fmt.Sprintf("%q", *p)
}
