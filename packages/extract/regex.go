package extract

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// regex compiles with ECMAScript semantics so \d and \w stay ASCII-only.
func (e *Extractor) regex(data any, pattern string) ([]any, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression %q: %v", pattern, err)
	}
	re.MatchTimeout = e.regexTimeout

	var values []any
	m, err := re.FindStringMatch(text(data))
	for m != nil && err == nil && len(values) < maxMatches {
		values = append(values, matchValue(m))
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("regular expression %q: %v", pattern, err)
	}
	return values, nil
}

// matchValue returns the first capture group when the pattern has one,
// otherwise the whole match.
func matchValue(m *regexp2.Match) string {
	if groups := m.Groups(); len(groups) > 1 {
		return groups[1].String()
	}
	return m.String()
}
