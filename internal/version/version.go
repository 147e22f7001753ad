// Package version holds the build version, set with -ldflags at release time.
package version

// Version is overridden via -ldflags "-X github.com/bioscout/bioscout-setup/internal/version.Version=v1.2.3".
var Version = "dev"
