// Package assertions evaluates a batch of assertion configs against one
// interaction snapshot.
//
// Each config names what to observe (status, a header, the body, the body
// size, the total size or the duration), an operator and the expected
// value. The expected value is either a literal or extracted from the
// response with REGEX, XPATH or JSONPATH. An optional gating condition
// decides whether the assertion applies at all:
//
//	[
//	  {"name": "ok", "type": "STATUS", "assertionCondition": "EQUAL", "expected": "200"},
//	  {"name": "json", "type": "HEADER", "parameterName": "content-type",
//	   "assertionCondition": "CONTAIN", "expected": "json"},
//	  {"name": "admin id", "type": "BODY", "assertionCondition": "JSON_PATH_MATCH",
//	   "expression": "$.user.id", "condition": "${body.user.role} == admin"}
//	]
//
// Evaluation runs in two phases. The first resolves every gating condition
// of the batch (see package condition) so that assertions can reference
// values published by other assertions through extraction.variable. The
// second walks the configs in order and produces one Result per enabled
// config. Evaluation never panics and never returns an error: problems are
// reported as failed or ignored results.
package assertions
