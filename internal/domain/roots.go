package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ScopedRoots is the set of directories privileged file operations are
// confined to.
type ScopedRoots []string

func NewScopedRoots(roots ...string) (ScopedRoots, error) {
	cleaned := make(ScopedRoots, 0, len(roots))
	seen := make(map[string]struct{}, len(roots))

	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		if !filepath.IsAbs(root) {
			return nil, fmt.Errorf("scoped root %q must be absolute: %w", root, ErrInvalidSettings)
		}

		root = filepath.Clean(root)
		if root == string(filepath.Separator) {
			return nil, fmt.Errorf("scoped root %q covers the whole filesystem: %w", root, ErrInvalidSettings)
		}
		if _, ok := seen[root]; ok {
			continue
		}

		seen[root] = struct{}{}
		cleaned = append(cleaned, root)
	}

	return cleaned, nil
}

// Confine cleans path and checks that it lies strictly below one of the
// roots. The roots themselves are not valid targets. Symlinks are not
// resolved here; the privileged side walks the path before touching it.
func (r ScopedRoots) Confine(path string) (string, error) {
	root, rel, err := r.Locate(path)
	if err != nil {
		return "", err
	}

	return filepath.Join(root, rel), nil
}

// Locate returns the root path lies below and path relative to that root.
func (r ScopedRoots) Locate(path string) (root string, rel string, err error) {
	if strings.TrimSpace(path) == "" {
		return "", "", fmt.Errorf("empty path: %w", ErrNotPermitted)
	}
	if !filepath.IsAbs(path) {
		return "", "", fmt.Errorf("path %q must be absolute: %w", path, ErrNotPermitted)
	}

	cleaned := filepath.Clean(path)
	for _, root := range r {
		if rel, ok := Below(root, cleaned); ok {
			return root, rel, nil
		}
	}

	return "", "", fmt.Errorf("path %q is outside the scoped storage roots: %w", path, ErrNotPermitted)
}

// Below reports whether path lies strictly below root and returns it
// relative to root. Both must be clean absolute paths.
func Below(root string, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	return rel, true
}
