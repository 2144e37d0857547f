// Package streaming copies file byte ranges to HTTP responses while
// watching for client disconnects, so aborted video scrubs release their
// file handles promptly instead of surfacing as server errors.
package streaming
