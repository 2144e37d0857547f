// Package handlers implements the HTTP API: folder listings, video
// metadata, range-aware video streaming, thumbnail delivery, reindex
// triggers, and health reporting.
package handlers
