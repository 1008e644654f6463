// Package config defines criterion's configuration structure and
// loading.
//
// Configuration is loaded from a YAML file, filled in with defaults,
// optionally overridden by CRITERION_* environment variables, and
// validated. Validation collects every problem into a single
// ValidationError rather than stopping at the first.
package config
