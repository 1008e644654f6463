// Package ast provides the shared source-level types for the scenario
// description language (SDL): source locations for error reporting and the
// diagnostic report tree produced by expression evaluation.
//
// The expression tree itself lives in pkg/expression; this package only
// holds the plain data types that the parser, the error package, and the
// evaluation engine exchange.
package ast
