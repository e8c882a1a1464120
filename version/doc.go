// Package version reports the build version of fixturectl.
//
// Version, GitCommit and BuildTime are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/dbfixture/version.Version=1.0.0" ./cmd/fixturectl
//
// Values left empty are filled from the VCS stamp of the Go build info.
package version
