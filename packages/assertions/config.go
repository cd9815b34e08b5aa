package assertions

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/compare"
	"github.com/abdul-hamid-achik/hitcheck/packages/extract"
	"github.com/abdul-hamid-achik/hitcheck/packages/value"
	"github.com/jinzhu/copier"
)

// Type selects the observed value an assertion checks.
type Type string

const (
	TypeStatus   Type = "STATUS"
	TypeHeader   Type = "HEADER"
	TypeBody     Type = "BODY"
	TypeBodySize Type = "BODY_SIZE"
	TypeSize     Type = "SIZE"
	TypeDuration Type = "DURATION"
)

var Types = []Type{TypeStatus, TypeHeader, TypeBody, TypeBodySize, TypeSize, TypeDuration}

func (t Type) Valid() bool {
	for _, known := range Types {
		if known == t {
			return true
		}
	}
	return false
}

// Source is where an expected-value extraction reads from.
type Source string

const (
	SourceBody   Source = "BODY"
	SourceHeader Source = "HEADER"
)

// Extraction derives the expected value from the response instead of a literal.
type Extraction struct {
	Method       extract.Method `json:"method" yaml:"method"`
	Expression   string         `json:"expression" yaml:"expression"`
	MatchItem    int            `json:"matchItem,omitempty" yaml:"matchItem,omitempty"`
	DefaultValue *value.Text    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Source       Source         `json:"source,omitempty" yaml:"source,omitempty"`
	Header       string         `json:"header,omitempty" yaml:"header,omitempty"`
	// Variable publishes the extracted value to gating conditions of the
	// whole batch as ${Variable}.
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
}

func (e *Extraction) rule() extract.Rule {
	return extract.Rule{
		Method:       e.Method,
		Expression:   e.Expression,
		MatchItem:    e.MatchItem,
		DefaultValue: textPtr(e.DefaultValue),
	}
}

func (e *Extraction) source() Source {
	if strings.EqualFold(string(e.Source), string(SourceHeader)) {
		return SourceHeader
	}
	return SourceBody
}

// Config is one assertion. Expression, MatchItem and DefaultValue describe
// how the real value is extracted when AssertionCondition is REG_MATCH,
// XPATH_MATCH or JSON_PATH_MATCH.
type Config struct {
	Name               string           `json:"name" yaml:"name"`
	Enabled            *bool            `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Type               Type             `json:"type" yaml:"type"`
	ParameterName      string           `json:"parameterName,omitempty" yaml:"parameterName,omitempty"`
	AssertionCondition compare.Operator `json:"assertionCondition" yaml:"assertionCondition"`
	Expected           *value.Text      `json:"expected,omitempty" yaml:"expected,omitempty"`
	Expression         string           `json:"expression,omitempty" yaml:"expression,omitempty"`
	MatchItem          int              `json:"matchItem,omitempty" yaml:"matchItem,omitempty"`
	DefaultValue       *value.Text      `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Extraction         *Extraction      `json:"extraction,omitempty" yaml:"extraction,omitempty"`
	Condition          string           `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// IsEnabled reports whether the assertion runs; an absent flag means enabled.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Label names the assertion in messages and reports.
func (c *Config) Label() string {
	if c.Name != "" {
		return c.Name
	}
	if c.ParameterName != "" {
		return fmt.Sprintf("%s %s %s", c.Type, c.ParameterName, c.AssertionCondition)
	}
	return fmt.Sprintf("%s %s", c.Type, c.AssertionCondition)
}

func (c *Config) realRule(method extract.Method) extract.Rule {
	return extract.Rule{
		Method:       method,
		Expression:   c.Expression,
		MatchItem:    c.MatchItem,
		DefaultValue: textPtr(c.DefaultValue),
	}
}

// BoolPtr returns a pointer to b, for building configs in code.
func BoolPtr(b bool) *bool {
	return &b
}

// CloneConfigs deep-copies a batch so evaluation never touches caller state.
func CloneConfigs(configs []Config) ([]Config, error) {
	if configs == nil {
		return nil, nil
	}
	out := make([]Config, 0, len(configs))
	if err := copier.CopyWithOption(&out, &configs, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("failed to copy assertion configs: %w", err)
	}
	return out, nil
}

func textPtr(t *value.Text) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

// methodFor maps a match-style operator to the extraction method it implies.
func methodFor(op compare.Operator) (extract.Method, bool) {
	switch op {
	case compare.RegMatch:
		return extract.MethodRegex, true
	case compare.XPathMatch:
		return extract.MethodXPath, true
	case compare.JSONPathMatch:
		return extract.MethodJSONPath, true
	default:
		return "", false
	}
}
