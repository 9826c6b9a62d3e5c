package version

import (
	"fmt"
	"runtime/debug"
)

// Version is the current application version.
// This is a var (not const) so it can be overridden at build time via:
//
//	go build -ldflags "-X github.com/vanderheijden86/scanview/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"

// Commit is the VCS revision, filled from build info when not set by ldflags.
var Commit = ""

// String returns "sv <version>" plus the short commit when known.
func String() string {
	rev := Commit
	if rev == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					rev = s.Value
				}
			}
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev == "" {
		return fmt.Sprintf("sv %s", Version)
	}
	return fmt.Sprintf("sv %s (%s)", Version, rev)
}
