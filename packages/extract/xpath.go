package extract

import (
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

func (e *Extractor) xpath(data any, expression string) ([]any, error) {
	expr, err := xpath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid XPath expression %q: %v", expression, err)
	}

	nav, err := navigator(text(data))
	if err != nil {
		return nil, err
	}

	switch res := expr.Evaluate(nav).(type) {
	case *xpath.NodeIterator:
		var values []any
		for res.MoveNext() && len(values) < maxMatches {
			values = append(values, res.Current().Value())
		}
		return values, nil
	case nil:
		return nil, nil
	default:
		return []any{res}, nil
	}
}

// navigator parses the document as XML and retries as HTML, which tolerates
// unclosed and void elements.
func navigator(doc string) (xpath.NodeNavigator, error) {
	if root, err := xmlquery.Parse(strings.NewReader(doc)); err == nil {
		return xmlquery.CreateXPathNavigator(root), nil
	}

	root, err := htmlquery.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("data is neither XML nor HTML: %v", err)
	}
	return htmlquery.CreateXPathNavigator(root), nil
}
