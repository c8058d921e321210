// Package sqlite implements roll history persistence on SQLite.
//
// Timestamps are stored as Unix nanoseconds so AIP filters on rolled_at can
// compare integers, and draw traces are stored as JSON.
package sqlite
