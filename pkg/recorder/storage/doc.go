// Package storage provides recorder.Storage backends: a SQLite
// backend for persistence across runs and an in-memory backend for
// tests and ephemeral use.
package storage
