package version

import (
	"strconv"
	"time"
)

// Version values are set at build time using -ldflags.
var Version = "dev"
var Major = "0"
var Minor = "0"
var Patch = "0"
var Built = ""
var GitCommit = ""

// Codename is the release codename shown in the startup banner.
var Codename = ""

type VersionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Major     int    `json:"major" yaml:"major"`
	Minor     int    `json:"minor" yaml:"minor"`
	Patch     int    `json:"patch" yaml:"patch"`
	Built     string `json:"built" yaml:"built"`
	GitCommit string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	Codename  string `json:"codename,omitempty" yaml:"codename,omitempty"`
}

func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Major:     parseInt(Major),
		Minor:     parseInt(Minor),
		Patch:     parseInt(Patch),
		Built:     Built,
		GitCommit: GitCommit,
		Codename:  Codename,
	}
}

// BuiltAt parses Built as RFC 3339. It reports false for dev builds.
func BuiltAt() (time.Time, bool) {
	if Built == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339, Built)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func parseInt(value string) int {
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return parsed
}
