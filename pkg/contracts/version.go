package contracts

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	// Version is the application release
	Version = "0.3.0"

	// DataFormatVersion changes whenever the JSON shape of WellRecord or
	// ChartDefinition changes
	DataFormatVersion = "v1"

	// APIVersion covers the HTTP routes and the websocket event types
	APIVersion = "v1"
)

// Stamped by build.go through -ldflags -X. Builds without ldflags fall back
// to the VCS settings recorded by the go tool.
var (
	BuildTime = ""
	GitCommit = ""
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version      string `json:"version"`
	DataFormat   string `json:"data_format"`
	APIVersion   string `json:"api_version"`
	GitCommit    string `json:"git_commit,omitempty"`
	BuildTime    string `json:"build_time,omitempty"`
	Modified     bool   `json:"modified,omitempty"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
}

// ReadBuildInfo collects version and build metadata
func ReadBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:      Version,
		DataFormat:   DataFormatVersion,
		APIVersion:   APIVersion,
		GitCommit:    GitCommit,
		BuildTime:    BuildTime,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = shortCommit(setting.Value)
			}
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = setting.Value
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	return info
}

// String renders the build info on one line for -version flags
func (b BuildInfo) String() string {
	commit := b.GitCommit
	if commit == "" {
		commit = "unknown"
	}
	if b.Modified {
		commit += "+dirty"
	}
	built := b.BuildTime
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("dureza-relativa v%s (format %s, commit %s, built %s, %s %s/%s)",
		b.Version, b.DataFormat, commit, built, b.GoVersion, b.OS, b.Architecture)
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
