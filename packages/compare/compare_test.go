package compare

import (
	"testing"

	"github.com/abdul-hamid-achik/hitcheck/packages/value"
	"github.com/stretchr/testify/assert"
)

func p(s string) *string { return &s }

func TestCompare(t *testing.T) {
	status := Subject{Type: "STATUS"}

	tests := []struct {
		name     string
		actual   *string
		op       Operator
		expected *string
		failure  bool
		message  string
	}{
		{name: "equal text", actual: p("200"), op: Equal, expected: p("200")},
		{name: "equal mismatch", actual: p("404"), op: Equal, expected: p("200"), failure: true, message: `expected "200", got "404"`},
		{name: "equal nil nil", actual: nil, op: Equal, expected: nil},
		{name: "equal nil vs text", actual: nil, op: Equal, expected: p(""), failure: true},
		{name: "equal json reordered", actual: p(`{"a":1,"b":[1,2]}`), op: Equal, expected: p(`{ "b": [1, 2], "a": 1.0 }`)},
		{name: "equal json arrays differ", actual: p(`[1,2]`), op: Equal, expected: p(`[2,1]`), failure: true},
		{name: "not equal", actual: p("404"), op: NotEqual, expected: p("200")},
		{name: "not equal same", actual: p("200"), op: NotEqual, expected: p("200"), failure: true},
		{name: "contain", actual: p("application/json; charset=utf-8"), op: Contain, expected: p("json")},
		{name: "contain missing", actual: p("text/plain"), op: Contain, expected: p("json"), failure: true, message: "to contain"},
		{name: "contain empty expected", actual: p("abc"), op: Contain, expected: p(""), failure: true, message: "expected value is empty"},
		{name: "contain nil actual", actual: nil, op: Contain, expected: p("a"), failure: true, message: "actual value is empty"},
		{name: "not contain", actual: p("abc"), op: NotContain, expected: p("z")},
		{name: "not contain present", actual: p("abc"), op: NotContain, expected: p("b"), failure: true, message: "not to contain"},
		{name: "not contain empty expected", actual: p("abc"), op: NotContain, expected: nil, failure: true},
		{name: "greater than", actual: p("250"), op: GreaterThan, expected: p("200")},
		{name: "greater than equal boundary", actual: p("200"), op: GreaterThanEqual, expected: p("200")},
		{name: "less than", actual: p("1.5"), op: LessThan, expected: p("2")},
		{name: "less than fails", actual: p("3"), op: LessThan, expected: p("2"), failure: true, message: "expected 3 < 2"},
		{name: "less than equal", actual: p(" 2 "), op: LessThanEqual, expected: p("2")},
		{name: "numeric actual abc", actual: p("abc"), op: GreaterThan, expected: p("1"), failure: true, message: "not a number"},
		{name: "numeric actual empty", actual: p(""), op: LessThan, expected: p("1"), failure: true, message: "not a number"},
		{name: "numeric expected 12a", actual: p("12"), op: GreaterThanEqual, expected: p("12a"), failure: true, message: "not a number"},
		{name: "numeric actual Inf", actual: p("Inf"), op: GreaterThan, expected: p("10"), failure: true, message: "not a number"},
		{name: "numeric expected hex float", actual: p("1"), op: LessThan, expected: p("0x1p-2"), failure: true, message: "not a number"},
		{name: "numeric Infinity", actual: p("Infinity"), op: GreaterThan, expected: p("1e308")},
		{name: "numeric nil", actual: nil, op: LessThanEqual, expected: p("1"), failure: true, message: "not a number"},
		{name: "is empty nil", actual: nil, op: IsEmpty},
		{name: "is empty blank", actual: p(""), op: IsEmpty},
		{name: "is empty text", actual: p("x"), op: IsEmpty, failure: true},
		{name: "not empty", actual: p("x"), op: NotEmpty},
		{name: "not empty blank", actual: p(""), op: NotEmpty, failure: true},
		{name: "is null", actual: nil, op: IsNull},
		{name: "is null blank", actual: p(""), op: IsNull, failure: true},
		{name: "not null blank", actual: p(""), op: NotNull},
		{name: "not null nil", actual: nil, op: NotNull, failure: true, message: "non-null"},
		{name: "reg match with expected", actual: p("abc"), op: RegMatch, expected: p("abc")},
		{name: "reg match differs", actual: p("abd"), op: RegMatch, expected: p("abc"), failure: true},
		{name: "xpath match truthy", actual: p("node"), op: XPathMatch},
		{name: "json path match nothing", actual: nil, op: JSONPathMatch, failure: true, message: "produced no value"},
		{name: "unsupported", actual: p("a"), op: Operator("LIKE"), expected: p("a"), failure: true, message: "unsupported assertion condition"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Compare(tt.actual, tt.op, tt.expected, status)
			assert.Equal(t, tt.failure, out.Failure, out.Message)
			if tt.message != "" {
				assert.Contains(t, out.Message, tt.message)
			}
			if !tt.failure {
				assert.Empty(t, out.Message)
			}
		})
	}
}

func TestCompare_SubjectInMessage(t *testing.T) {
	out := Compare(p("text/html"), Equal, p("application/json"), Subject{Type: "HEADER", ParameterName: "Content-Type"})
	assert.True(t, out.Failure)
	assert.Contains(t, out.Message, "header Content-Type")

	out = Compare(p("1"), GreaterThan, p("x"), Subject{Type: "BODY", Extracted: true})
	assert.True(t, out.Failure)
	assert.Contains(t, out.Message, "extracted expected value")
}

func TestOperator(t *testing.T) {
	for _, op := range Operators {
		assert.True(t, op.Valid(), op)
	}
	assert.False(t, Operator("equal").Valid())

	assert.True(t, RegMatch.IsMatch())
	assert.False(t, Equal.IsMatch())
	assert.True(t, IsNull.Unary())
	assert.False(t, Contain.Unary())
	assert.True(t, LessThan.Numeric())
	assert.Equal(t, ">=", GreaterThanEqual.Symbol())
	assert.Equal(t, "CONTAIN", Contain.Symbol())
}

func TestCompare_NeverPanics(t *testing.T) {
	values := []*string{nil, p(""), p("0"), p("{"), p("[1"), p(`{"a":`), p("NaN")}
	for _, op := range append(Operators, Operator("")) {
		for _, a := range values {
			for _, b := range values {
				assert.NotPanics(t, func() {
					Compare(a, op, b, Subject{})
				}, "%s %s %s", value.Display(a), op, value.Display(b))
			}
		}
	}
}
