// Package version holds build metadata injected at link time:
//
//	go build -ldflags "-X github.com/stigaview/stigaview/internal/version.Version=v1.4.0"
package version

import "fmt"

// Version is the release version of the binary.
var Version = "unknown"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the one-line version banner.
func String() string {
	return fmt.Sprintf("stigaview %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
