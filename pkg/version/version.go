// Package version carries build metadata stamped in with -ldflags:
//
//	go build -ldflags "-X github.com/tata-ai/tata/pkg/version.Version=v1.2.0"
package version

import "fmt"

var (
	// Version is the release tag of the tata binary
	Version = "dev"
	// GitCommit is the commit the binary was built from
	GitCommit = "none"
	// BuildTime is when the binary was built
	BuildTime = "unknown"
)

// String renders the build metadata on one line
func String() string {
	return fmt.Sprintf("tata %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
