// Criterion evaluates driving-scenario acceptance and failure criteria
// against a simulator, tick by tick, until the scenario succeeds or
// fails.
//
// Usage:
//
//	# Evaluate a scenario with default configuration
//	criterion run --scenario scenarios/intersection.yaml
//
//	# Evaluate with a custom configuration file
//	criterion run --config /path/to/config.yaml
//
//	# Validate a scenario document without evaluating it
//	criterion validate --scenario scenarios/intersection.yaml
//
//	# Revalidate on every save while editing
//	criterion validate --scenario scenarios/intersection.yaml --watch
//
//	# Show version information
//	criterion version
package main

func main() {
	Execute()
}
