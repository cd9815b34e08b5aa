// Package interaction models the captured outcome of one request/response
// exchange that an assertion batch is evaluated against.
//
// A Snapshot is treated as immutable by the engine: callers hand one in,
// the engine works on a Clone and never writes back.
package interaction
