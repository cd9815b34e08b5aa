package assertions

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitcheck/packages/compare"
	"github.com/abdul-hamid-achik/hitcheck/packages/condition"
	"github.com/abdul-hamid-achik/hitcheck/packages/extract"
	"github.com/abdul-hamid-achik/hitcheck/packages/interaction"
	"go.uber.org/zap"
)

// Engine evaluates assertion batches. It is immutable once built and safe
// for concurrent use.
type Engine struct {
	extractor    *extract.Extractor
	logger       *zap.Logger
	regexTimeout time.Duration
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithLogger sets the logger that receives per-assertion debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRegexTimeout bounds each regular expression evaluation.
func WithRegexTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.regexTimeout = d
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:       zap.NewNop(),
		regexTimeout: extract.DefaultRegexTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.extractor = extract.New(extract.WithRegexTimeout(e.regexTimeout))
	return e
}

var defaultEngine = NewEngine()

// Execute evaluates configs against snap with the default engine.
func Execute(configs []Config, snap *interaction.Snapshot) []Result {
	return defaultEngine.Execute(configs, snap)
}

// Execute returns one result per enabled config, in input order. A nil
// snapshot or an empty batch yields an empty slice. Neither argument is
// modified.
func (e *Engine) Execute(configs []Config, snap *interaction.Snapshot) []Result {
	results := []Result{}
	if snap == nil || len(configs) == 0 {
		return results
	}

	cfgs, err := CloneConfigs(configs)
	if err != nil {
		e.logger.Warn("cannot copy assertion configs", zap.Error(err))
		return results
	}
	s, err := snap.Clone()
	if err != nil {
		e.logger.Warn("cannot copy snapshot", zap.Error(err))
		return results
	}

	// phase 1: expected-value extractions publish their variables, then
	// every gating condition of the batch is resolved once.
	expected := make([]extract.Result, len(cfgs))
	bindings := make(map[string]*string)
	conditions := make([]string, 0, len(cfgs))
	for i := range cfgs {
		cfg := &cfgs[i]
		if !cfg.IsEnabled() {
			continue
		}
		if cfg.Extraction != nil {
			expected[i] = e.extractExpected(cfg, s)
			name := strings.TrimSpace(cfg.Extraction.Variable)
			if _, taken := bindings[name]; name != "" && !taken && expected[i].ErrorMessage == "" {
				bindings[name] = expected[i].Text()
			}
		}
		if cfg.Condition != "" {
			conditions = append(conditions, cfg.Condition)
		}
	}
	scope := condition.Resolve(s, conditions, bindings)
	e.logger.Debug("conditions resolved",
		zap.Int("conditions", len(scope.Conditions)),
		zap.Int("variables", len(scope.Variables)),
		zap.Int("bindings", len(bindings)),
	)

	// phase 2
	for i := range cfgs {
		if !cfgs[i].IsEnabled() {
			continue
		}
		result := e.evaluate(&cfgs[i], s, scope, expected[i])
		e.logger.Debug("assertion evaluated",
			zap.String("name", result.Name),
			zap.String("type", string(result.Type)),
			zap.Bool("ignored", result.Ignored()),
			zap.Bool("failure", result.Result.Failure),
			zap.String("message", result.Result.Message),
		)
		results = append(results, result)
	}
	return results
}

func (e *Engine) evaluate(cfg *Config, snap *interaction.Snapshot, scope *condition.Scope, extracted extract.Result) (result Result) {
	result = Result{
		Name:               cfg.Name,
		Type:               cfg.Type,
		ParameterName:      cfg.ParameterName,
		Condition:          cfg.Condition,
		AssertionCondition: cfg.AssertionCondition,
		Extraction:         cfg.Extraction != nil,
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("assertion panicked", zap.String("name", cfg.Name), zap.Any("panic", r))
			result.Result.Failure = true
			result.Result.Message = fmt.Sprintf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(cfg.Condition) != "" {
		gate, pass := checkGate(cfg.Condition, scope)
		result.ConditionResult = gate
		if !pass {
			return result
		}
	}

	if !cfg.Type.Valid() {
		result.Result = Outcome{Failure: true, Message: fmt.Sprintf("unsupported assertion type %q", cfg.Type)}
		return result
	}

	expected := textPtr(cfg.Expected)
	if cfg.Extraction != nil {
		expected = extracted.Text()
	}
	observed := resolveRealValue(e.extractor, cfg, snap)
	result.Result.ExpectedData = expected
	result.Result.RealValueData = observed.Data

	switch {
	case cfg.Extraction != nil && extracted.ErrorMessage != "":
		result.Result.Failure = true
		result.Result.Message = extracted.ErrorMessage
	case observed.NotFound:
		result.Result.Failure = true
		result.Result.Message = observed.Message
	default:
		out := compare.Compare(observed.Data, cfg.AssertionCondition, expected, compare.Subject{
			Type:          string(cfg.Type),
			ParameterName: cfg.ParameterName,
			Extracted:     cfg.Extraction != nil,
		})
		result.Result.Failure = out.Failure
		result.Result.Message = out.Message
		if out.Failure && observed.ErrorMessage != "" {
			result.Result.Message = fmt.Sprintf("%s (%s)", out.Message, observed.ErrorMessage)
		}
	}
	return result
}

// checkGate evaluates a gating condition; pass is false when the
// assertion must be ignored.
func checkGate(source string, scope *condition.Scope) (ConditionResult, bool) {
	expr, _ := scope.Expression(source)
	if expr == nil {
		return ConditionResult{
			Failure: true,
			Ignored: true,
			Message: fmt.Sprintf("condition %q is malformed, assertion ignored", source),
		}, false
	}

	v := scope.Value(expr.Left)
	out := compare.Compare(v.Value, expr.Operator, expr.Right, compare.Subject{
		Type:          "condition",
		ParameterName: v.Name,
	})
	gate := ConditionResult{
		Failure:          out.Failure,
		Name:             v.Name,
		ConditionMessage: out.Message,
		FailureMessage:   v.FailureMessage,
		Value:            v.Value,
	}
	if out.Failure {
		gate.Ignored = true
		gate.Message = "condition not satisfied, assertion ignored"
		return gate, false
	}
	return gate, true
}

func (e *Engine) extractExpected(cfg *Config, snap *interaction.Snapshot) extract.Result {
	ext := cfg.Extraction
	var data any = snap.ResponseBody.Data
	if ext.source() == SourceHeader {
		name := ext.Header
		if name == "" {
			name = cfg.ParameterName
		}
		data = nil
		if v, ok := snap.ResponseHeader.Get(name); ok {
			data = v
		}
	}
	return e.extractor.Extract(data, ext.rule())
}
