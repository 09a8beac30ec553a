// Package version holds the build version, set with
// -ldflags "-X github.com/battlesnakeio/arcade/version.Version=..."
package version

// Version is the released version of the arcade.
var Version = "dev"
