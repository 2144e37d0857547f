// Package workers computes the size of the bounded indexing worker pool.
package workers
