// Package value holds the coercion rules shared by the extractor, the
// real-value resolver and the comparator.
//
// Every observed or expected value reaches the comparator as *string:
//   - nil means the value is null
//   - structured values (objects, arrays) are serialized as JSON
//   - every other scalar is rendered as plain text
package value
