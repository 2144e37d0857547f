package safepath

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrInvalidPath indicates a caller-supplied path that escapes the
// configured root, either via traversal ("..") or absolute-path injection.
var ErrInvalidPath = errors.New("invalid path")

// Resolve canonicalizes relPath against root and returns the absolute path.
// It fails with ErrInvalidPath when the result would lie outside root.
// Resolve performs no filesystem access; the returned path may or may not
// exist.
func Resolve(root, relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", ErrInvalidPath
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", ErrInvalidPath
	}

	abs, err := filepath.Abs(filepath.Join(absRoot, relPath))
	if err != nil {
		return "", ErrInvalidPath
	}

	if abs != absRoot && !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}

	return abs, nil
}
