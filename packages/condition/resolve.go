package condition

import (
	"regexp"
	"strings"

	"github.com/abdul-hamid-achik/hitcheck/packages/extract"
	"github.com/abdul-hamid-achik/hitcheck/packages/interaction"
	"github.com/abdul-hamid-achik/hitcheck/packages/value"
	"github.com/tidwall/gjson"
)

// Resolve parses every distinct condition and resolves every variable they
// reference. bindings holds named values published by extractions of the
// same batch; they take precedence over snapshot paths. A failed lookup is
// recorded on the variable and never stops resolution.
func Resolve(snap *interaction.Snapshot, conditions []string, bindings map[string]*string) *Scope {
	scope := newScope()
	r := newResolver(snap, bindings)

	for _, source := range conditions {
		if strings.TrimSpace(source) == "" {
			continue
		}
		if _, seen := scope.Conditions[source]; seen {
			continue
		}

		expr, ok := Parse(source)
		if !ok {
			scope.Conditions[source] = nil
			continue
		}
		scope.Conditions[source] = expr

		if !expr.Left.IsVariable() {
			continue
		}
		if _, seen := scope.Variables[expr.Left.Raw]; seen {
			continue
		}
		scope.Variables[expr.Left.Raw] = r.variable(expr.Left)
	}

	return scope
}

type resolver struct {
	snap     *interaction.Snapshot
	bindings map[string]*string
	body     *string
	json     gjson.Result
	isJSON   bool
}

func newResolver(snap *interaction.Snapshot, bindings map[string]*string) *resolver {
	r := &resolver{snap: snap, bindings: bindings}
	if snap == nil {
		return r
	}
	r.body = snap.ResponseBody.Text()
	if r.body != nil && gjson.Valid(*r.body) {
		r.json = gjson.Parse(*r.body)
		r.isJSON = true
	}
	return r
}

func (r *resolver) variable(op Operand) Variable {
	v, ok := r.lookup(op.Path)
	if !ok {
		return unresolved(op.Path, op.Raw)
	}
	return Variable{Name: op.Path, Value: v, Resolved: true}
}

func (r *resolver) lookup(path string) (*string, bool) {
	if v, ok := r.bindings[path]; ok {
		return v, true
	}
	if r.snap == nil {
		return nil, false
	}
	if strings.HasPrefix(path, "$") {
		return r.jsonPath(path)
	}

	p := path
	if len(p) > len("response.") && strings.EqualFold(p[:len("response.")], "response.") {
		p = p[len("response."):]
	}
	lower := strings.ToLower(p)

	switch lower {
	case "status":
		return value.Ptr(r.snap.StatusText()), true
	case "duration":
		return value.Ptr(r.snap.DurationText()), true
	case "size":
		return value.Stringify(r.snap.TotalSize()), true
	case "bodysize", "body_size", "body.size":
		return value.Ptr(r.snap.BodySizeText()), true
	case "body":
		return r.body, true
	}

	switch {
	case strings.HasPrefix(lower, "header.") || strings.HasPrefix(lower, "headers."):
		name := p[strings.Index(p, ".")+1:]
		if v, ok := r.snap.ResponseHeader.Get(name); ok {
			return &v, true
		}
		return nil, false
	case strings.HasPrefix(lower, "request."):
		return r.request(p[len("request."):])
	case strings.HasPrefix(lower, "body.") || strings.HasPrefix(lower, "body["):
		return r.bodyPath(strings.TrimPrefix(p[len("body"):], "."))
	}

	return r.bare(path)
}

func (r *resolver) request(rest string) (*string, bool) {
	section, name, found := strings.Cut(rest, ".")
	if !found || name == "" {
		return nil, false
	}
	var m map[string]string
	switch strings.ToLower(section) {
	case "header", "headers":
		m = r.snap.RequestHeader
	case "query":
		m = r.snap.RequestQuery
	case "form":
		m = r.snap.RequestForm
	case "path":
		m = r.snap.RequestPath
	default:
		return nil, false
	}
	if v, ok := interaction.LookupFold(m, name); ok {
		return &v, true
	}
	return nil, false
}

// bare looks a plain name up in the request parameters, then the response
// headers, then the top level of a JSON body.
func (r *resolver) bare(name string) (*string, bool) {
	for _, m := range []map[string]string{
		r.snap.RequestQuery,
		r.snap.RequestForm,
		r.snap.RequestPath,
		r.snap.RequestHeader,
	} {
		if v, ok := interaction.LookupFold(m, name); ok {
			return &v, true
		}
	}
	if v, ok := r.snap.ResponseHeader.Get(name); ok {
		return &v, true
	}
	if !r.isJSON || !r.json.IsObject() {
		return nil, false
	}
	var (
		found  gjson.Result
		exists bool
	)
	r.json.ForEach(func(key, val gjson.Result) bool {
		if key.String() == name {
			found, exists = val, true
			return false
		}
		return true
	})
	if !exists {
		return nil, false
	}
	return resultText(found), true
}

var bracketIndex = regexp.MustCompile(`\[(\d+)\]`)

// gjsonPath converts bracket indexes to gjson dot notation:
// "items[0].tags[1]" becomes "items.0.tags.1".
func gjsonPath(path string) string {
	return strings.TrimPrefix(bracketIndex.ReplaceAllString(path, ".$1"), ".")
}

func (r *resolver) bodyPath(path string) (*string, bool) {
	if !r.isJSON {
		return nil, false
	}
	res := r.json.Get(gjsonPath(path))
	if !res.Exists() {
		return nil, false
	}
	return resultText(res), true
}

func (r *resolver) jsonPath(path string) (*string, bool) {
	if r.snap.ResponseBody.Data == nil {
		return nil, false
	}
	res := extract.Extract(r.snap.ResponseBody.Data, extract.Rule{
		Method:     extract.MethodJSONPath,
		Expression: path,
	})
	if res.ErrorMessage != "" || res.Matched == 0 {
		return nil, false
	}
	return res.Text(), true
}

func resultText(res gjson.Result) *string {
	switch res.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		return value.Ptr(res.String())
	default:
		return value.Ptr(strings.TrimSpace(res.Raw))
	}
}
