package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadBuildInfo(t *testing.T) {
	info := ReadBuildInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, DataFormatVersion, info.DataFormat)
	assert.Equal(t, APIVersion, info.APIVersion)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.OS)
}

func TestReadBuildInfo_LdflagsWin(t *testing.T) {
	oldCommit, oldTime := GitCommit, BuildTime
	t.Cleanup(func() { GitCommit, BuildTime = oldCommit, oldTime })

	GitCommit = "abc1234"
	BuildTime = "2024-05-01T10:00:00Z"

	info := ReadBuildInfo()
	assert.Equal(t, "abc1234", info.GitCommit)
	assert.Equal(t, "2024-05-01T10:00:00Z", info.BuildTime)
}

func TestBuildInfo_String(t *testing.T) {
	tests := []struct {
		name     string
		info     BuildInfo
		contains []string
	}{
		{
			name:     "stamped",
			info:     BuildInfo{Version: "1.0.0", DataFormat: "v1", GitCommit: "abc1234", BuildTime: "2024-05-01", GoVersion: "go1.24", OS: "linux", Architecture: "amd64"},
			contains: []string{"dureza-relativa v1.0.0", "commit abc1234", "built 2024-05-01", "linux/amd64"},
		},
		{
			name:     "unstamped dirty",
			info:     BuildInfo{Version: "1.0.0", DataFormat: "v1", Modified: true},
			contains: []string{"commit unknown+dirty", "built unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.info.String()
			for _, want := range tt.contains {
				assert.Contains(t, s, want)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortCommit("0123456789abcdef0123"))
	assert.Equal(t, "abc", shortCommit("abc"))
}
