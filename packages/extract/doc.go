// Package extract derives a single value from raw response data.
//
// Three methods are supported:
//   - REGEX: a backtracking regular expression (JavaScript/.NET syntax) over the data as text
//   - XPATH: an XPath expression over the data parsed as XML, or HTML as a fallback
//   - JSONPATH: a JSONPath expression over the data parsed as JSON
//
// Every method selects one occurrence through a 1-based match item and falls
// back to the rule's default value when nothing usable was found. Extraction
// never returns an error: problems are reported in Result.ErrorMessage.
package extract
