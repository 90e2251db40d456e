package domain

import (
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// RelativeTo returns path relative to root using forward slashes.
// Both arguments must be absolute. A path outside root yields ErrPathEscapesWorkspace.
func RelativeTo(root, path string) (string, error) {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil || !isLocalRel(rel) {
		escErr := zerr.With(zerr.Wrap(ErrPathEscapesWorkspace, "path is not inside the workspace"), "path", path)
		return "", zerr.With(escErr, "root", root)
	}
	return filepath.ToSlash(rel), nil
}

// IsWithin reports whether path lies inside root.
func IsWithin(root, path string) bool {
	_, err := RelativeTo(root, path)
	return err == nil
}

func isLocalRel(rel string) bool {
	if rel == "." || rel == "" || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
