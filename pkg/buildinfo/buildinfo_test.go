package buildinfo

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get("chatview")

	assert.Equal(t, "chatview", info.Name)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, BuildTime, info.BuildTime)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.NotEmpty(t, info.Version)
}

func TestResolveVersion(t *testing.T) {
	withMain := func(v string) func() (*debug.BuildInfo, bool) {
		return func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Main: debug.Module{Version: v}}, true
		}
	}
	unavailable := func() (*debug.BuildInfo, bool) { return nil, false }

	tests := []struct {
		name   string
		linked string
		read   func() (*debug.BuildInfo, bool)
		want   string
	}{
		{"linked wins", "v1.2.3", withMain("v9.9.9"), "v1.2.3"},
		{"module version", "dev", withMain("v0.4.1"), "v0.4.1"},
		{"devel build", "dev", withMain("(devel)"), "dev"},
		{"no build info", "dev", unavailable, "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveVersion(tt.linked, tt.read))
		})
	}
}

func TestString(t *testing.T) {
	orig := [3]string{Version, Commit, BuildTime}
	t.Cleanup(func() { Version, Commit, BuildTime = orig[0], orig[1], orig[2] })

	assert.Equal(t, "dev (unknown, unknown)", String())

	Version, Commit, BuildTime = "v1.2.3", "abc123d", "2026-10-01T09:00:00Z"
	assert.Equal(t, "v1.2.3 (abc123d, 2026-10-01T09:00:00Z)", String())
}

func TestInfo_JSONKeys(t *testing.T) {
	data, err := json.Marshal(Info{Name: "chatview", Version: "v1.0.0", BuildTime: "2026-01-01T00:00:00Z"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Len(t, decoded, 6)
	assert.Equal(t, "v1.0.0", decoded["version"])
	assert.Equal(t, "2026-01-01T00:00:00Z", decoded["build_time"])
	assert.Contains(t, decoded, "go_version")
}
