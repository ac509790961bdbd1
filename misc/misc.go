// Package misc keeps build identity helpers in one place so both the CLI
// and logging can report consistent program information.
package misc

import "runtime/debug"

const appName = "ttxr"

// set by the release pipeline via -ldflags
var (
	version = "devel"
	gitHash = ""
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
