package thumbs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os/exec"
	"strings"

	_ "image/png" // ffmpeg emits PNG on the image2pipe path

	"github.com/disintegration/imaging"
)

// Thumbnail canvas. Frames are scaled to fill and center-cropped so every
// thumbnail has the same dimensions regardless of source aspect ratio.
const (
	thumbWidth  = 320
	thumbHeight = 180
)

// ErrExtractFailed indicates the external frame extractor could not
// produce a usable frame.
var ErrExtractFailed = errors.New("frame extraction failed")

// ExtractFunc captures a single frame of src at offset seconds and writes
// it as a JPEG to dst. ExtractFrame is the production implementation;
// tests inject fakes.
type ExtractFunc func(ctx context.Context, src string, offset float64, dst string) error

// ExtractFrame shells out to ffmpeg for the frame, scales it onto the
// fixed canvas and writes the JPEG to dst. The subprocess is opaque and
// bounded only by ctx and ffmpeg itself.
func ExtractFrame(ctx context.Context, src string, offset float64, dst string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", fmt.Sprintf("%.3f", offset),
		"-i", src,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: ffmpeg: %v - %s", ErrExtractFailed, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return fmt.Errorf("%w: ffmpeg produced no output for %s", ErrExtractFailed, src)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return fmt.Errorf("%w: decode frame: %v", ErrExtractFailed, err)
	}

	thumb := imaging.Fill(img, thumbWidth, thumbHeight, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(80)); err != nil {
		return fmt.Errorf("%w: save thumbnail: %v", ErrExtractFailed, err)
	}

	return nil
}
