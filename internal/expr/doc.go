// Package expr evaluates single placeholder expressions against a scope
// stack. The grammar is deliberately small: dotted paths, a `||` default
// operator, `==` equality, and the ternary `cond ? a : b`. Anything the
// engine cannot parse or resolve evaluates to "missing" (ok == false); the
// binding walker decides the surface behavior.
//
// The engine is pluggable: hosts can substitute a richer evaluator by
// implementing Engine without touching the walker.
package expr
