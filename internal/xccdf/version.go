package xccdf

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

// ErrVersionFormat is the cause of every version format error.
var ErrVersionFormat = errors.New("document file name does not match v<version>r<release>.xml")

var versionPattern = regexp.MustCompile(`(?i)^v(\d+)r(\d+)\.xml$`)

// ParseVersion extracts the version and release numbers from a document file
// name such as v10r3.xml. Only the base name of path is inspected.
func ParseVersion(path string) (version, release int, err error) {
	m := versionPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrVersionFormat, path)
	}
	if version, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrVersionFormat, path, err)
	}
	if release, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %w", ErrVersionFormat, path, err)
	}
	return version, release, nil
}

// IsDocumentName reports whether name looks like a benchmark document.
func IsDocumentName(name string) bool {
	return versionPattern.MatchString(name)
}
