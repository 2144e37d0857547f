// Package safepath validates caller-supplied relative paths against a
// configured root directory. Every externally supplied path must pass
// through Resolve before any filesystem access.
package safepath
