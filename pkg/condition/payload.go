package condition

import (
	"fmt"
	"time"
)

// Configuration payload readers. A payload is the opaque map of keys a
// procedure node carries besides Type; modules read their keys from it
// during Configure. Essential keys fail configuration when absent,
// optional keys fall back to a default.

// EssentialString reads a required string key.
func EssentialString(cfg map[string]any, key string) (string, error) {
	raw, ok := cfg[key]
	if !ok {
		return "", fmt.Errorf("missing required key %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("key %q: expected string, got %T", key, raw)
	}
	return s, nil
}

// OptionalString reads an optional string key.
func OptionalString(cfg map[string]any, key, def string) (string, error) {
	raw, ok := cfg[key]
	if !ok {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return def, fmt.Errorf("key %q: expected string, got %T", key, raw)
	}
	return s, nil
}

// EssentialFloat reads a required numeric key, accepting integers and
// floats from the YAML decoder.
func EssentialFloat(cfg map[string]any, key string) (float64, error) {
	raw, ok := cfg[key]
	if !ok {
		return 0, fmt.Errorf("missing required key %q", key)
	}
	return asFloat(key, raw)
}

// OptionalFloat reads an optional numeric key.
func OptionalFloat(cfg map[string]any, key string, def float64) (float64, error) {
	raw, ok := cfg[key]
	if !ok {
		return def, nil
	}
	return asFloat(key, raw)
}

// OptionalBool reads an optional boolean key.
func OptionalBool(cfg map[string]any, key string, def bool) (bool, error) {
	raw, ok := cfg[key]
	if !ok {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return def, fmt.Errorf("key %q: expected bool, got %T", key, raw)
	}
	return b, nil
}

// EssentialDuration reads a required duration key. Bare numbers are
// interpreted as seconds; strings go through time.ParseDuration.
func EssentialDuration(cfg map[string]any, key string) (time.Duration, error) {
	raw, ok := cfg[key]
	if !ok {
		return 0, fmt.Errorf("missing required key %q", key)
	}
	switch v := raw.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("key %q: %w", key, err)
		}
		return d, nil
	default:
		seconds, err := asFloat(key, raw)
		if err != nil {
			return 0, err
		}
		return time.Duration(seconds * float64(time.Second)), nil
	}
}

func asFloat(key string, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("key %q: expected number, got %T", key, raw)
	}
}
