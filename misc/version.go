// Package misc provides build identity helpers shared by logging and CLI output.
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "deckgen"

// GetAppName returns short program name used in logs, temp files and reports.
func GetAppName() string {
	return appName
}

var readBuildInfo = sync.OnceValues(func() (version, hash string) {
	version, hash = "unknown", "unknown"
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 8 {
			hash = s.Value[:8]
		}
	}
	return
})

// GetVersion returns module version recorded in build info.
func GetVersion() string {
	v, _ := readBuildInfo()
	return v
}

// GetGitHash returns short VCS revision recorded in build info.
func GetGitHash() string {
	_, h := readBuildInfo()
	return h
}
