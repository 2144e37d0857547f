// Package startup loads configuration from the environment, prepares the
// cache directory layout under the video root, and provides the formatted
// lifecycle logging used by the server binaries.
package startup
