// Package version reports the build of the extract-templates tool.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time via -ldflags "-X .../internal/version.Version=v1.0.0"
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = "unknown"
	BuildTime = "unknown"
	GitDirty  = "" // "dirty" for builds from a modified tree
)

// Info is the build description printed by --version
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"gitCommit" yaml:"gitCommit"`
	BuildTime string `json:"buildTime" yaml:"buildTime"`
	GoVersion string `json:"goVersion,omitempty" yaml:"goVersion,omitempty"`
}

// String formats the info on one line, e.g. "v1.2.3 (commit abc1234, built 2025-01-01)"
func (i Info) String() string {
	var details []string
	if i.GitCommit != "unknown" && i.GitCommit != "" {
		details = append(details, "commit "+i.GitCommit)
	}
	if i.BuildTime != "unknown" && i.BuildTime != "" {
		details = append(details, "built "+i.BuildTime)
	}
	if len(details) == 0 {
		return i.Version
	}
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(details, ", "))
}

// GetVersion resolves the version: ldflags first, then module build info,
// then tag and commit.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			return info.Main.Version
		}
	}

	if GitTag == "unknown" || GitCommit == "unknown" {
		return "dev"
	}

	version := GitTag
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if commit != "" && !strings.HasSuffix(GitTag, commit) {
		version = fmt.Sprintf("%s-%s", GitTag, commit)
	}
	if GitDirty == "dirty" {
		version += "-dirty"
	}
	return version
}

// GetInfo collects the build description
func GetInfo() Info {
	info := Info{
		Version:   GetVersion(),
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
	}
	return info
}
