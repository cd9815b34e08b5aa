package assertions

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitcheck/packages/compare"
	"github.com/abdul-hamid-achik/hitcheck/packages/extract"
	"github.com/abdul-hamid-achik/hitcheck/packages/interaction"
	"github.com/abdul-hamid-achik/hitcheck/packages/value"
)

const msgHeaderNotFound = "header not found"

// RealValue is the observed value of an assertion. NotFound is set when a
// HEADER assertion names a header the response does not carry.
type RealValue struct {
	Data         *string
	Message      string
	ErrorMessage string
	NotFound     bool
}

// ResolveRealValue produces the observed value for cfg from snap using the
// default extractor.
func ResolveRealValue(cfg *Config, snap *interaction.Snapshot) RealValue {
	return resolveRealValue(extract.New(), cfg, snap)
}

func resolveRealValue(ex *extract.Extractor, cfg *Config, snap *interaction.Snapshot) RealValue {
	if snap == nil {
		return RealValue{Message: "no snapshot"}
	}

	switch cfg.Type {
	case TypeStatus:
		return RealValue{Data: value.Ptr(snap.StatusText())}
	case TypeDuration:
		return RealValue{Data: value.Ptr(snap.DurationText())}
	case TypeBodySize:
		return RealValue{Data: value.Ptr(snap.BodySizeText())}
	case TypeSize:
		return RealValue{Data: value.Stringify(snap.TotalSize())}
	case TypeHeader:
		return headerValue(ex, cfg, snap)
	case TypeBody:
		return bodyValue(ex, cfg, snap)
	default:
		return RealValue{ErrorMessage: fmt.Sprintf("unsupported assertion type %q", cfg.Type)}
	}
}

func headerValue(ex *extract.Extractor, cfg *Config, snap *interaction.Snapshot) RealValue {
	raw, ok := snap.ResponseHeader.Get(cfg.ParameterName)
	if !ok {
		return RealValue{Message: msgHeaderNotFound, NotFound: true}
	}

	switch cfg.AssertionCondition {
	case compare.RegMatch, compare.XPathMatch:
		method, _ := methodFor(cfg.AssertionCondition)
		return fromExtraction(ex.Extract(raw, cfg.realRule(method)))
	default:
		return RealValue{Data: &raw}
	}
}

func bodyValue(ex *extract.Extractor, cfg *Config, snap *interaction.Snapshot) RealValue {
	if method, ok := methodFor(cfg.AssertionCondition); ok {
		return fromExtraction(ex.Extract(snap.ResponseBody.Data, cfg.realRule(method)))
	}
	return RealValue{Data: snap.ResponseBody.Text()}
}

func fromExtraction(res extract.Result) RealValue {
	return RealValue{
		Data:         res.Text(),
		Message:      res.Message,
		ErrorMessage: res.ErrorMessage,
	}
}
