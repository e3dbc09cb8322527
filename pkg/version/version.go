// Package version reports the build that is running. The values are set
// with -ldflags "-X github.com/sgl-project/dataset-viz/pkg/version.GitVersion=...".
package version

import "fmt"

var (
	GitVersion = "unknown"
	GitCommit  = "unknown"
)

// String formats the build for --version output.
func String() string {
	return fmt.Sprintf("gitVersion=%s, gitCommit=%s", GitVersion, GitCommit)
}
