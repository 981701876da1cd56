package buildtime

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

//go:embed revision
var revision string

func init() {
	version = strings.TrimSpace(version)
	revision = strings.TrimSpace(revision)
}

// Version of this build, from the VERSION file at build time.
func Version() string {
	return version
}

// Revision is the source revision this build was cut from.
func Revision() string {
	return revision
}

func VersionString() string {
	return version + " (commit: " + revision + ")"
}
