// Package grammar reads context-free grammars in a one-rule-per-line format and computes the FIRST and
// FOLLOW sets the LR constructions need.
package grammar

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.grammar")
}
