// Package version holds build metadata injected via ldflags:
//
//	go build -ldflags "-X github.com/MJE43/eclipse-combat/internal/version.EngineVersion=v1.2.0"
package version

import "fmt"

// Version information - these will be set at build time via ldflags
var (
	EngineVersion = "dev"
	GitCommit     = "unknown"
	BuildTime     = "unknown"
)

// Info is the build metadata in one value.
type Info struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit"`
	BuildTime     string `json:"build_time"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		EngineVersion: EngineVersion,
		GitCommit:     GitCommit,
		BuildTime:     BuildTime,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("eclipse-combat %s (commit %s, built %s)", i.EngineVersion, i.GitCommit, i.BuildTime)
}
