// Package utils holds small helpers shared across callmem packages.
package utils

import "fmt"

// Build metadata, overridden with -ldflags "-X" at release time.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// BuildInfo renders the build metadata on one line for startup logs.
func BuildInfo() string {
	return fmt.Sprintf("callmem %s (%s, built %s)", Version, Sha, Buildtime)
}
