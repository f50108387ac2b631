package version

import (
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X github.com/kbukum/callanalyzer/version.Version=1.2.0".
// Commit and BuildTime fall back to the VCS stamps of the Go toolchain.
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Product is the name reported in the User-Agent of outbound requests.
const Product = "callanalyzer"

const shortCommit = 7

// Info is the build information served on /version.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	BuildDate time.Time `json:"build_date,omitzero"`
	GoVersion string    `json:"go_version"`
	Dirty     bool      `json:"dirty"`
}

// Get merges the ldflags values with the embedded build info.
func Get() Info {
	info := Info{Version: Version, Commit: Commit}
	stamp := BuildTime
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		stamp = info.readVCS(bi.Settings, stamp)
	}
	if t, err := time.Parse(time.RFC3339, stamp); err == nil {
		info.BuildDate = t
	}
	if len(info.Commit) > shortCommit {
		info.Commit = info.Commit[:shortCommit]
	}
	return info
}

// readVCS fills unset fields from the vcs.* settings and returns the build
// time to use.
func (i *Info) readVCS(settings []debug.BuildSetting, stamp string) string {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.Commit == "" {
				i.Commit = s.Value
			}
		case "vcs.modified":
			i.Dirty = s.Value == "true"
		case "vcs.time":
			if stamp == "" {
				stamp = s.Value
			}
		}
	}
	return stamp
}

// Short is "<version>[-<commit>][-dirty]".
func (i Info) Short() string {
	parts := []string{i.Version}
	if i.Commit != "" {
		parts = append(parts, i.Commit)
		if i.Dirty {
			parts = append(parts, "dirty")
		}
	}
	return strings.Join(parts, "-")
}

// String is the line printed by the version command.
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(Product + " " + i.Short())
	if !i.BuildDate.IsZero() {
		b.WriteString(" built " + i.BuildDate.UTC().Format(time.RFC3339))
	}
	if i.GoVersion != "" {
		b.WriteString(" " + i.GoVersion)
	}
	return b.String()
}

// UserAgent returns the User-Agent sent to transcription providers.
func UserAgent() string {
	return Product + "/" + Get().Short()
}
