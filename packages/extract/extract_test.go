package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		input string
		want  Method
		ok    bool
	}{
		{"REGEX", MethodRegex, true},
		{"regexp", MethodRegex, true},
		{"XPath", MethodXPath, true},
		{"JSON_PATH", MethodJSONPath, true},
		{"jsonpath", MethodJSONPath, true},
		{"css", Method("css"), false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseMethod(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Regex(t *testing.T) {
	body := "id=17; id=23; id=42"

	tests := []struct {
		name      string
		rule      Rule
		want      any
		errorText string
	}{
		{
			name: "first capture group by default",
			rule: Rule{Method: MethodRegex, Expression: `id=(\d+)`},
			want: "17",
		},
		{
			name: "second occurrence",
			rule: Rule{Method: MethodRegex, Expression: `id=(\d+)`, MatchItem: 2},
			want: "23",
		},
		{
			name: "whole match without groups",
			rule: Rule{Method: MethodRegex, Expression: `id=\d+`, MatchItem: 3},
			want: "id=42",
		},
		{
			name: "out of range falls back to default",
			rule: Rule{Method: MethodRegex, Expression: `id=(\d+)`, MatchItem: 4, DefaultValue: value.Ptr("none")},
			want: "none",
		},
		{
			name: "no match without default",
			rule: Rule{Method: MethodRegex, Expression: `token=(\w+)`},
			want: nil,
		},
		{
			name:      "invalid pattern",
			rule:      Rule{Method: MethodRegex, Expression: `id=(\d+`, DefaultValue: value.Ptr("d")},
			want:      "d",
			errorText: "invalid regular expression",
		},
		{
			name: "lookahead is supported",
			rule: Rule{Method: MethodRegex, Expression: `\d+(?=;)`, MatchItem: 2},
			want: "23",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Extract(body, tt.rule)
			assert.Equal(t, tt.want, result.Data)
			if tt.errorText != "" {
				assert.Contains(t, result.ErrorMessage, tt.errorText)
			} else {
				assert.Empty(t, result.ErrorMessage)
			}
		})
	}
}

func TestExtract_RegexOverStructuredData(t *testing.T) {
	data := map[string]any{"token": "abc123"}
	result := Extract(data, Rule{Method: MethodRegex, Expression: `"token":"(\w+)"`})
	assert.Equal(t, "abc123", result.Data)
}

func TestExtract_RegexMatchAll(t *testing.T) {
	result := Extract("a1 b2 c3", Rule{Method: MethodRegex, Expression: `[a-z](\d)`, MatchItem: MatchAll})
	assert.Equal(t, []any{"1", "2", "3"}, result.Data)
	assert.Equal(t, `["1","2","3"]`, *result.Text())
}

func TestExtract_RegexASCIIClasses(t *testing.T) {
	result := Extract("order 34 placed", Rule{Method: MethodRegex, Expression: `order (\d+)`})
	assert.Equal(t, "34", result.Data)

	// Arabic-Indic digits are not \d.
	result = Extract("order ٣٤ placed", Rule{Method: MethodRegex, Expression: `order (\d+)`})
	assert.Nil(t, result.Data)
	assert.Equal(t, 0, result.Matched)
	assert.Contains(t, result.Message, "matched nothing")

	result = Extract("café", Rule{Method: MethodRegex, Expression: `^\w+$`})
	assert.Nil(t, result.Data)
}

func TestExtract_RegexTimeout(t *testing.T) {
	e := New(WithRegexTimeout(20 * time.Millisecond))
	input := strings.Repeat("a", 40) + "!"

	result := e.Extract(input, Rule{Method: MethodRegex, Expression: `^(a+)+$`, DefaultValue: value.Ptr("fallback")})
	assert.Equal(t, "fallback", result.Data)
	assert.Contains(t, result.ErrorMessage, "timeout")
}

func TestExtract_XPath(t *testing.T) {
	doc := `<?xml version="1.0"?><root><item id="1">alpha</item><item id="2">beta</item></root>`

	t.Run("node text by match item", func(t *testing.T) {
		result := Extract(doc, Rule{Method: MethodXPath, Expression: "//item", MatchItem: 2})
		assert.Equal(t, "beta", result.Data)
		assert.Empty(t, result.ErrorMessage)
	})

	t.Run("attribute value", func(t *testing.T) {
		result := Extract(doc, Rule{Method: MethodXPath, Expression: "//item[2]/@id"})
		assert.Equal(t, "2", result.Data)
	})

	t.Run("scalar expression", func(t *testing.T) {
		result := Extract(doc, Rule{Method: MethodXPath, Expression: "count(//item)"})
		assert.Equal(t, "2", *result.Text())
	})

	t.Run("no match uses default", func(t *testing.T) {
		result := Extract(doc, Rule{Method: MethodXPath, Expression: "//missing", DefaultValue: value.Ptr("x")})
		assert.Equal(t, "x", result.Data)
		assert.Empty(t, result.ErrorMessage)
	})

	t.Run("invalid expression", func(t *testing.T) {
		result := Extract(doc, Rule{Method: MethodXPath, Expression: "//item[", DefaultValue: value.Ptr("x")})
		assert.Equal(t, "x", result.Data)
		assert.Contains(t, result.ErrorMessage, "invalid XPath expression")
	})
}

func TestExtract_XPathHTML(t *testing.T) {
	doc := `<html><body><p class="greeting">hello</p></body></html>`
	result := Extract(doc, Rule{Method: MethodXPath, Expression: `//p[@class="greeting"]`})
	assert.Equal(t, "hello", result.Data)
}

func TestExtract_JSONPath(t *testing.T) {
	decoded := map[string]any{
		"data": map[string]any{
			"id":    7.0,
			"items": []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}},
		},
	}
	raw := `{"data":{"id":7,"items":[{"name":"a"},{"name":"b"}]}}`

	for name, data := range map[string]any{"decoded": decoded, "text": raw} {
		t.Run(name, func(t *testing.T) {
			result := Extract(data, Rule{Method: MethodJSONPath, Expression: "$.data.id"})
			require.Empty(t, result.ErrorMessage)
			assert.Equal(t, "7", *result.Text())

			result = Extract(data, Rule{Method: MethodJSONPath, Expression: "$.data.items[*].name", MatchItem: 2})
			assert.Equal(t, "b", result.Data)

			result = Extract(data, Rule{Method: MethodJSONPath, Expression: "$.data.items[0]"})
			assert.Equal(t, `{"name":"a"}`, *result.Text())

			result = Extract(data, Rule{Method: MethodJSONPath, Expression: "$.data.missing"})
			assert.Nil(t, result.Data)
			assert.Zero(t, result.Matched)
			assert.NotEmpty(t, result.Message)
		})
	}
}

func TestExtract_JSONPathNull(t *testing.T) {
	for name, data := range map[string]any{"decoded": map[string]any{"c": nil}, "text": `{"c":null}`} {
		t.Run(name, func(t *testing.T) {
			result := Extract(data, Rule{Method: MethodJSONPath, Expression: "$.c"})
			require.Empty(t, result.ErrorMessage)
			assert.Equal(t, 1, result.Matched)
			assert.Nil(t, result.Data)
			assert.Nil(t, result.Text())
		})
	}
}

func TestExtract_JSONPathErrors(t *testing.T) {
	t.Run("unparsable data", func(t *testing.T) {
		result := Extract("<xml/>", Rule{Method: MethodJSONPath, Expression: "$.a", DefaultValue: value.Ptr("d")})
		assert.Equal(t, "d", result.Data)
		assert.Contains(t, result.ErrorMessage, "not valid JSON")
	})

	t.Run("invalid expression", func(t *testing.T) {
		result := Extract(`{"a":1}`, Rule{Method: MethodJSONPath, Expression: "$.a[", DefaultValue: value.Ptr("d")})
		assert.Equal(t, "d", result.Data)
		assert.Contains(t, result.ErrorMessage, "invalid JSONPath expression")
	})
}

func TestExtract_Degenerate(t *testing.T) {
	t.Run("nil data short-circuits to default", func(t *testing.T) {
		result := Extract(nil, Rule{Method: MethodJSONPath, Expression: "$.a", DefaultValue: value.Ptr("d")})
		assert.Equal(t, "d", result.Data)
		assert.Empty(t, result.ErrorMessage)
	})

	t.Run("empty expression", func(t *testing.T) {
		result := Extract("abc", Rule{Method: MethodRegex, Expression: "  "})
		assert.Nil(t, result.Data)
		assert.Contains(t, result.ErrorMessage, "expression is empty")
	})

	t.Run("unknown method", func(t *testing.T) {
		result := Extract("abc", Rule{Method: "CSS", Expression: "p"})
		assert.Contains(t, result.ErrorMessage, "unsupported extraction method")
	})
}
