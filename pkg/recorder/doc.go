// Package recorder persists scenario runs and per-tick evaluation
// results for later inspection.
//
// Each run gets a UUID and a row in the runs table; every tick appends
// a record carrying the verdict, the success and failure criteria
// reports (JSON), and the evaluation duration. Storage backends live
// in the storage subpackage (SQLite and in-memory); retention
// enforcement lives in the retention subpackage.
package recorder
