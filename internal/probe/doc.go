// Package probe wraps the external media inspector (ffprobe) used to
// extract a video's duration.
package probe
