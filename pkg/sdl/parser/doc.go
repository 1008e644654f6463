// Package parser turns scenario YAML documents into runtime Scenario
// values: an entity registry, intersection controllers, and the
// success and failure criteria trees.
//
// # Document Shape
//
// A scenario document has a single top-level Scenario key with three
// optional sections:
//
//	Scenario:
//	  Entity:
//	    Ego: ego
//	    Npcs: [npc_1]
//	  Intersection:
//	    - Name: crossing
//	      Initial: Red
//	      Control:
//	        - State: Red
//	          TrafficLight:
//	            - {Id: 1, Color: Red}
//	  Condition:
//	    Success:
//	      All:
//	        - {Type: ReachPosition, Trigger: ego, X: 10, Y: 0}
//	    Failure:
//	      Any:
//	        - {Type: Timeout, Limit: 60}
//
// Criteria nodes are either combinators (All, Any, Not) or procedure
// leaves carrying a Type key. Leaves are resolved through a module
// registry, configured from the remaining mapping keys, and validated
// against the declared entities and intersections before the first
// tick runs.
//
// # Error Reporting
//
// The builder collects every problem it finds into an ErrorList
// instead of stopping at the first, and each error carries the source
// location of the offending YAML node. Parse attaches the surrounding
// source lines to each error for display.
package parser
