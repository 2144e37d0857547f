// Package thumbs generates representative still images for videos via an
// external frame extractor (ffmpeg). It implements both a fixed one-second
// capture and a multi-candidate "smart" selection that keeps the candidate
// with the largest encoded size.
package thumbs
