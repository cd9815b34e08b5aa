package extract

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

func (e *Extractor) jsonPath(data any, expression string) ([]any, error) {
	path, err := jp.ParseString(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %v", expression, err)
	}

	doc, err := jsonDocument(data)
	if err != nil {
		return nil, err
	}
	return path.Get(doc), nil
}

// jsonDocument parses text data and passes already-decoded data through.
func jsonDocument(data any) (any, error) {
	switch v := data.(type) {
	case string:
		doc, err := oj.ParseString(v)
		if err != nil {
			return nil, fmt.Errorf("data is not valid JSON: %v", err)
		}
		return doc, nil
	case []byte:
		doc, err := oj.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("data is not valid JSON: %v", err)
		}
		return doc, nil
	default:
		return data, nil
	}
}
