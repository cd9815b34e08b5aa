// Package condition parses gating expressions and resolves the variables
// they reference.
//
// A gating expression has the form
//
//	<left> <operator> [<right>]
//
// where the operator is one of ==, !=, >, >=, <, <=, contains, not contains,
// is null, is not null, is empty or is not empty. The left operand is a
// variable when written as ${path} or as a JSONPath ($.items[0].id);
// anything else is taken literally. Right operands may be quoted.
//
//	${status} == 200
//	${header.Content-Type} contains json
//	$.user.role != 'guest'
//	${token} is not empty
//
// Resolve is the first phase of an evaluation: it parses every condition
// of a batch and resolves every referenced variable against the snapshot
// before any assertion runs, so a Scope can be shared read-only by the
// second phase.
package condition
