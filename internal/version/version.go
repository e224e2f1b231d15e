package version

import (
	"fmt"
	"runtime/debug"
)

// Version and Commit identify the build. Release builds set them via ldflags:
//
//	go build -ldflags="-X github.com/luisfcorreia/fon-gramofon-support/internal/version.Version=v1.2.3 \
//	                   -X github.com/luisfcorreia/fon-gramofon-support/internal/version.Commit=abc123"
//
// Anything ldflags leaves empty is filled from the VCS stamp the Go
// toolchain embeds in the binary, so plain `go build` from a git checkout
// still reports a usable commit.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if commit, dirty := vcsRevision(); Commit == "" && commit != "" {
		Commit = commit
		if dirty {
			Commit += "-dirty"
		}
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// vcsRevision reads the embedded VCS settings and returns the short commit
// hash and whether the working tree was dirty at build time
func vcsRevision() (string, bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if len(revision) > 7 {
		revision = revision[:7]
	}
	return revision, dirty
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
