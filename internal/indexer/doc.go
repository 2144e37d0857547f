// Package indexer orchestrates indexing passes: it reconciles video
// discovery against the persistent index, dispatches per-file probe and
// thumbnail work through a bounded pool, and deletes records for files no
// longer on disk. Concurrent triggers collapse onto a single in-flight
// pass.
package indexer
