// Package watcher provides filesystem watching for scenario files,
// used by the validate command's watch mode to revalidate a scenario
// on every save. Events are debounced so editor write bursts trigger
// a single revalidation.
package watcher
