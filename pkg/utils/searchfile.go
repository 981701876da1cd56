package utils

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrNotFoundUpward = errors.New("file not found in any ancestor directory")

// look for fileName in root and then in each ancestor directory of root,
// nearest first. Only regular files count.
//
// Returns the path of the first hit, or ErrNotFoundUpward.
func SearchFileUpward(root string, fileName string) (string, error) {
	dir := root
	for {
		p := filepath.Join(dir, fileName)
		if s, err := os.Stat(p); err == nil && s.Mode().IsRegular() {
			return p, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFoundUpward
		}
		dir = parent
	}
}
