// Package database implements the persistent video index: one SQLite table
// of VideoRecord rows keyed by relative path. Writes are serialized
// (single-writer discipline) and each upsert replaces the whole record
// atomically, so readers never see a partially updated row.
package database
