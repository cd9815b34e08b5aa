package assertions

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/compare"
	"github.com/abdul-hamid-achik/hitcheck/packages/condition"
	"github.com/abdul-hamid-achik/hitcheck/packages/extract"
	"github.com/hashicorp/go-multierror"
)

// Validate checks a batch for problems that would make assertions fail or
// be ignored for reasons unrelated to the response. Disabled configs are
// checked too. It returns nil or a *multierror.Error listing every problem.
func Validate(configs []Config) error {
	var result *multierror.Error
	variables := make(map[string]int)

	for i := range configs {
		cfg := &configs[i]
		where := fmt.Sprintf("assertion %d (%s)", i+1, cfg.Label())

		if !cfg.Type.Valid() {
			result = multierror.Append(result, fmt.Errorf("%s: unknown type %q", where, cfg.Type))
		}
		if !cfg.AssertionCondition.Valid() {
			result = multierror.Append(result, fmt.Errorf("%s: unknown assertion condition %q", where, cfg.AssertionCondition))
		}
		if cfg.Type == TypeHeader && strings.TrimSpace(cfg.ParameterName) == "" {
			result = multierror.Append(result, fmt.Errorf("%s: HEADER assertion requires parameterName", where))
		}
		if usesRealExtraction(cfg) && strings.TrimSpace(cfg.Expression) == "" {
			result = multierror.Append(result, fmt.Errorf("%s: %s requires expression", where, cfg.AssertionCondition))
		}
		if cond := strings.TrimSpace(cfg.Condition); cond != "" {
			if _, ok := condition.Parse(cond); !ok {
				result = multierror.Append(result, fmt.Errorf("%s: malformed condition %q", where, cfg.Condition))
			}
		}

		if ext := cfg.Extraction; ext != nil {
			if _, ok := extract.ParseMethod(string(ext.Method)); !ok {
				result = multierror.Append(result, fmt.Errorf("%s: unknown extraction method %q", where, ext.Method))
			}
			if strings.TrimSpace(ext.Expression) == "" {
				result = multierror.Append(result, fmt.Errorf("%s: extraction requires expression", where))
			}
			if ext.MatchItem < extract.MatchAll {
				result = multierror.Append(result, fmt.Errorf("%s: invalid extraction matchItem %d", where, ext.MatchItem))
			}
			if ext.Source != "" && !strings.EqualFold(string(ext.Source), string(SourceBody)) && !strings.EqualFold(string(ext.Source), string(SourceHeader)) {
				result = multierror.Append(result, fmt.Errorf("%s: unknown extraction source %q", where, ext.Source))
			}
			if name := strings.TrimSpace(ext.Variable); name != "" {
				if first, dup := variables[name]; dup {
					result = multierror.Append(result, fmt.Errorf("%s: variable %q already defined by assertion %d", where, name, first))
				} else {
					variables[name] = i + 1
				}
			}
		}
	}

	return result.ErrorOrNil()
}

// usesRealExtraction reports whether the real value of cfg is extracted with
// cfg.Expression. HEADER assertions only re-extract for REG_MATCH and
// XPATH_MATCH.
func usesRealExtraction(cfg *Config) bool {
	switch cfg.Type {
	case TypeBody:
		_, ok := methodFor(cfg.AssertionCondition)
		return ok
	case TypeHeader:
		return cfg.AssertionCondition == compare.RegMatch || cfg.AssertionCondition == compare.XPathMatch
	default:
		return false
	}
}
