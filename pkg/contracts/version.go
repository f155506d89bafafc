package contracts

import (
	"fmt"
	"runtime"
)

// Version of cacases. SnapshotFormat changes whenever snapshot.json or the
// stored run layout changes shape.
const (
	Version        = "0.3.0"
	SnapshotFormat = "v1"
	APIVersion     = "v1"
)

// Stamped with -ldflags "-X cacases/pkg/contracts.GitCommit=...".
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
	GitBranch = "unknown"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version        string `json:"version"`
	SnapshotFormat string `json:"snapshot_format"`
	APIVersion     string `json:"api_version"`
	BuildTime      string `json:"build_time"`
	GitCommit      string `json:"git_commit"`
	GitBranch      string `json:"git_branch"`
	GoVersion      string `json:"go_version"`
	Platform       string `json:"platform"`
}

// GetVersionInfo collects build and runtime details.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:        Version,
		SnapshotFormat: SnapshotFormat,
		APIVersion:     APIVersion,
		BuildTime:      BuildTime,
		GitCommit:      GitCommit,
		GitBranch:      GitBranch,
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetVersionString is the short form printed in banners.
func GetVersionString() string {
	return "cacases v" + Version
}

// GetFullVersionString is what `cacases version` prints.
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (snapshot %s, api %s) commit %s on %s, built %s with %s for %s",
		GetVersionString(), info.SnapshotFormat, info.APIVersion,
		info.GitCommit, info.GitBranch, info.BuildTime, info.GoVersion, info.Platform)
}
