// Package driver runs an automaton against a stream of terminals and builds the value tree of the
// input.
package driver

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.driver'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.driver")
}
