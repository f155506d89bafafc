package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, SnapshotFormat, info.SnapshotFormat)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "cacases v"+Version, GetVersionString())

	full := GetFullVersionString()
	assert.True(t, strings.HasPrefix(full, GetVersionString()))
	assert.Contains(t, full, "commit "+GitCommit)
	assert.Contains(t, full, "snapshot "+SnapshotFormat)
}
