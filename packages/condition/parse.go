package condition

import (
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/compare"
)

// OperandKind tells a literal apart from a variable reference.
type OperandKind int

const (
	KindLiteral OperandKind = iota
	KindVariable
)

func (k OperandKind) String() string {
	if k == KindVariable {
		return "variable"
	}
	return "literal"
}

// Operand is the left side of an expression. For a variable, Path is the
// reference without its ${} wrapper; for a literal it is the unquoted text.
// Raw is the operand exactly as written.
type Operand struct {
	Kind OperandKind
	Path string
	Raw  string
}

func (o Operand) IsVariable() bool {
	return o.Kind == KindVariable
}

// Expression is a parsed gating condition. Right is nil for unary operators.
type Expression struct {
	Source   string
	Left     Operand
	Operator compare.Operator
	Right    *string
}

type operatorToken struct {
	op    compare.Operator
	unary bool
}

var symbolOperators = []struct {
	text string
	op   compare.Operator
}{
	// two-character operators first
	{">=", compare.GreaterThanEqual},
	{"<=", compare.LessThanEqual},
	{"==", compare.Equal},
	{"!=", compare.NotEqual},
	{">", compare.GreaterThan},
	{"<", compare.LessThan},
}

var wordOperator = regexp.MustCompile(`(?i)^(is\s+not\s+empty|is\s+not\s+null|is\s+empty|is\s+null|not\s+contains|contains)(\s|$)`)

var wordOperators = map[string]operatorToken{
	"is not empty": {compare.NotEmpty, true},
	"is not null":  {compare.NotNull, true},
	"is empty":     {compare.IsEmpty, true},
	"is null":      {compare.IsNull, true},
	"not contains": {compare.NotContain, false},
	"contains":     {compare.Contain, false},
}

var spaces = regexp.MustCompile(`\s+`)

// Parse reads a gating expression. It reports false for anything it cannot
// understand and never panics.
func Parse(source string) (*Expression, bool) {
	text := strings.TrimSpace(source)
	if text == "" {
		return nil, false
	}

	start, end, token, ok := findOperator(text)
	if !ok {
		return nil, false
	}

	left, ok := parseOperand(strings.TrimSpace(text[:start]))
	if !ok {
		return nil, false
	}

	expr := &Expression{
		Source:   source,
		Left:     left,
		Operator: token.op,
	}

	rest := strings.TrimSpace(text[end:])
	if token.unary {
		if rest != "" {
			return nil, false
		}
		return expr, true
	}
	if rest == "" {
		return nil, false
	}
	right := unquote(rest)
	expr.Right = &right
	return expr, true
}

// findOperator locates the first operator outside quotes and brackets.
func findOperator(text string) (start, end int, token operatorToken, ok bool) {
	var (
		quote byte
		depth int
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
			continue
		case '[', '{', '(':
			depth++
			continue
		case ']', '}', ')':
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth > 0 || i == 0 {
			continue
		}

		for _, sym := range symbolOperators {
			if strings.HasPrefix(text[i:], sym.text) {
				return i, i + len(sym.text), operatorToken{op: sym.op}, true
			}
		}

		if isSpace(text[i-1]) {
			if m := wordOperator.FindStringSubmatch(text[i:]); m != nil {
				key := strings.ToLower(spaces.ReplaceAllString(m[1], " "))
				return i, i + len(m[1]), wordOperators[key], true
			}
		}
	}
	return 0, 0, operatorToken{}, false
}

func parseOperand(text string) (Operand, bool) {
	if text == "" {
		return Operand{}, false
	}
	if strings.HasPrefix(text, "${") {
		if !strings.HasSuffix(text, "}") {
			return Operand{}, false
		}
		path := strings.TrimSpace(text[2 : len(text)-1])
		if path == "" {
			return Operand{}, false
		}
		return Operand{Kind: KindVariable, Path: path, Raw: text}, true
	}
	if text == "$" || strings.HasPrefix(text, "$.") || strings.HasPrefix(text, "$[") {
		return Operand{Kind: KindVariable, Path: text, Raw: text}, true
	}
	return Operand{Kind: KindLiteral, Path: unquote(text), Raw: text}, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
