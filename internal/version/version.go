package version

import (
	"runtime/debug"
	"strings"
)

// Version is set with -ldflags "-X github.com/auralynx/auralynx/internal/version.Version=..." on release builds.
var Version = ""

// Resolve returns the release version when one was linked in, otherwise the
// module version recorded by the Go toolchain, otherwise "dev".
func Resolve() string {
	return resolveVersion(Version, debug.ReadBuildInfo)
}

func resolveVersion(linked string, buildInfo func() (*debug.BuildInfo, bool)) string {
	if v := strings.TrimPrefix(strings.TrimSpace(linked), "v"); v != "" {
		return v
	}

	info, ok := buildInfo()
	if !ok || info == nil {
		return "dev"
	}

	v := strings.TrimPrefix(info.Main.Version, "v")
	if v == "" || v == "(devel)" {
		return "dev" + revisionSuffix(info)
	}
	return v
}

func revisionSuffix(info *debug.BuildInfo) string {
	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision == "" {
		return ""
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if dirty {
		return "-" + revision + "-dirty"
	}
	return "-" + revision
}
