package io

import (
	"os"
	"path/filepath"
)

// CreateAll creates (or truncates) the file at name, making missing parent
// directories first.
//
// fmod is the mode of the file, dmod the mode of directories CreateAll
// itself creates. Directories already there keep their mode.
func CreateAll(name string, fmod os.FileMode, dmod os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(name), dmod); err != nil {
		return nil, err
	}
	return os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, fmod)
}
