package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrBundleNotFound indicates that the bundle path does not exist.
var ErrBundleNotFound = errors.New("xcresult bundle not found")

// Bundle resolves the bundle path against root and checks that it exists.
// .xcresult bundles are directories; anything else is rejected.
func Bundle(root, input string) (string, error) {
	path := resolve(root, input)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrBundleNotFound, input)
		}
		return "", fmt.Errorf("stat bundle %q: %w", input, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("bundle %q is not a directory", input)
	}
	return path, nil
}

// OutputDir resolves the output directory against root. A missing directory
// is fine; an existing non-directory is not.
func OutputDir(root, input string) (string, error) {
	path := resolve(root, input)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		return "", fmt.Errorf("stat output directory %q: %w", input, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("output directory %q is not a directory", input)
	}
	return path, nil
}

func resolve(root, input string) string {
	if filepath.IsAbs(input) || root == "" {
		return filepath.Clean(input)
	}
	return filepath.Join(root, input)
}
