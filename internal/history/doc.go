// Package history persists the outcome of brightness passes.
//
// Each scheduler pass produces one Run with a Result per detected display.
// Runs are stored in SQLite so that brightness behaviour can be inspected
// after the fact: which displays were found, what target the curve produced,
// and which writes failed. Persistence is optional; when the database is
// disabled the coordinator simply runs without a recorder.
package history
