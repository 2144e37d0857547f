// Package scanner discovers video files under the library root. Each scan
// is a complete re-walk yielding a materialized slice of candidates with
// their filesystem timestamps; hidden entries and the cache area are
// skipped.
package scanner
