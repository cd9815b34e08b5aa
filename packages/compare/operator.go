// Package compare decides whether an observed value satisfies an assertion
// operator. Compare is a pure function: it never panics and every branch
// returns a failure flag plus an optional message.
package compare

// Operator is an assertion condition.
type Operator string

const (
	Equal            Operator = "EQUAL"
	NotEqual         Operator = "NOT_EQUAL"
	Contain          Operator = "CONTAIN"
	NotContain       Operator = "NOT_CONTAIN"
	GreaterThan      Operator = "GREATER_THAN"
	GreaterThanEqual Operator = "GREATER_THAN_EQUAL"
	LessThan         Operator = "LESS_THAN"
	LessThanEqual    Operator = "LESS_THAN_EQUAL"
	IsEmpty          Operator = "IS_EMPTY"
	NotEmpty         Operator = "NOT_EMPTY"
	IsNull           Operator = "IS_NULL"
	NotNull          Operator = "NOT_NULL"
	RegMatch         Operator = "REG_MATCH"
	XPathMatch       Operator = "XPATH_MATCH"
	JSONPathMatch    Operator = "JSON_PATH_MATCH"
)

// Operators lists every supported operator.
var Operators = []Operator{
	Equal, NotEqual,
	Contain, NotContain,
	GreaterThan, GreaterThanEqual, LessThan, LessThanEqual,
	IsEmpty, NotEmpty, IsNull, NotNull,
	RegMatch, XPathMatch, JSONPathMatch,
}

// Valid reports whether o is a supported operator.
func (o Operator) Valid() bool {
	for _, op := range Operators {
		if op == o {
			return true
		}
	}
	return false
}

// IsMatch reports whether o describes how the real value is extracted
// (REG_MATCH, XPATH_MATCH, JSON_PATH_MATCH).
func (o Operator) IsMatch() bool {
	return o == RegMatch || o == XPathMatch || o == JSONPathMatch
}

// Unary reports whether o ignores the expected value.
func (o Operator) Unary() bool {
	switch o {
	case IsEmpty, NotEmpty, IsNull, NotNull:
		return true
	default:
		return false
	}
}

// Numeric reports whether o is an ordering comparison.
func (o Operator) Numeric() bool {
	switch o {
	case GreaterThan, GreaterThanEqual, LessThan, LessThanEqual:
		return true
	default:
		return false
	}
}

// Symbol is the short form used in messages.
func (o Operator) Symbol() string {
	switch o {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanEqual:
		return "<="
	default:
		return string(o)
	}
}
