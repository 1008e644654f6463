// Package expression implements the scenario expression tree and its
// per-tick evaluation protocol.
//
// An Expression is a value type over a shared backing node: assignment
// and copying share the node rather than deep-copying, so evaluating
// either handle advances the same underlying procedure state. The tree is
// built bottom-up by the scenario parser and never mutated to point
// upward, so no reference cycles can form; the garbage collector provides
// the shared-ownership lifetime the tree relies on.
//
// Grammar:
//
//	<Expression> = <Literal>
//	             | <Logical>
//	             | <Procedure Call>
//
//	<Logical> = <All> [ <Test>* ]
//	          | <Any> [ <Test>* ]
//	          | <Not> { <Test> }
//
// Logical combinators evaluate every child exactly once per tick in
// declaration order, with no short-circuiting: children may be action
// procedures whose side effects must run each tick. The value of a test
// is the truthiness of the resulting expression; an empty expression
// converts to false.
package expression
