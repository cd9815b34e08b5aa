package assertions

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitcheck/packages/compare"
)

// ConditionResult reports how the gating condition of an assertion was
// evaluated. Failure means the gate did not pass; Ignored is then set too.
type ConditionResult struct {
	Failure          bool    `json:"failure"`
	Name             string  `json:"name,omitempty"`
	ConditionMessage string  `json:"conditionMessage,omitempty"`
	FailureMessage   string  `json:"failureMessage,omitempty"`
	Value            *string `json:"value"`
	Ignored          bool    `json:"ignored"`
	Message          string  `json:"message,omitempty"`
}

// Outcome is the verdict of the assertion itself.
type Outcome struct {
	ExpectedData  *string `json:"expectedData"`
	RealValueData *string `json:"realValueData"`
	Failure       bool    `json:"failure"`
	Message       string  `json:"message,omitempty"`
}

// Result is produced for every enabled config, in input order.
type Result struct {
	Name               string           `json:"name"`
	Type               Type             `json:"type"`
	ParameterName      string           `json:"parameterName,omitempty"`
	Condition          string           `json:"condition,omitempty"`
	AssertionCondition compare.Operator `json:"assertionCondition"`
	Extraction         bool             `json:"extraction"`
	ConditionResult    ConditionResult  `json:"conditionResult"`
	Result             Outcome          `json:"result"`
}

func (r *Result) Ignored() bool {
	return r.ConditionResult.Ignored
}

func (r *Result) Passed() bool {
	return !r.Ignored() && !r.Result.Failure
}

func (r *Result) Failed() bool {
	return !r.Ignored() && r.Result.Failure
}

// Summary counts the outcomes of a batch.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Ignored int `json:"ignored"`
}

// OK reports whether no assertion failed.
func (s Summary) OK() bool {
	return s.Failed == 0
}

func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for i := range results {
		switch {
		case results[i].Ignored():
			s.Ignored++
		case results[i].Result.Failure:
			s.Failed++
		default:
			s.Passed++
		}
	}
	return s
}

// Label names the result in reports.
func (r *Result) Label() string {
	if r.Name != "" {
		return r.Name
	}
	if r.ParameterName != "" {
		return fmt.Sprintf("%s %s %s", r.Type, r.ParameterName, r.AssertionCondition)
	}
	return fmt.Sprintf("%s %s", r.Type, r.AssertionCondition)
}
