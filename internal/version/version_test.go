package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeBuildInfo(mainVersion string, settings ...debug.BuildSetting) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: mainVersion}, Settings: settings}, true
	}
}

func noBuildInfo() (*debug.BuildInfo, bool) {
	return nil, false
}

func TestResolveVersion_LinkedReleaseWins(t *testing.T) {
	t.Parallel()
	got := resolveVersion("v1.2.0", fakeBuildInfo("v0.9.0"))
	require.Equal(t, "1.2.0", got)
}

func TestResolveVersion_ModuleVersion(t *testing.T) {
	t.Parallel()
	got := resolveVersion("", fakeBuildInfo("v0.3.1"))
	require.Equal(t, "0.3.1", got)
}

func TestResolveVersion_DevelWithRevision(t *testing.T) {
	t.Parallel()
	got := resolveVersion("", fakeBuildInfo("(devel)",
		debug.BuildSetting{Key: "vcs.revision", Value: "abcdef0123456789"},
	))
	require.Equal(t, "dev-abcdef0", got)
}

func TestResolveVersion_DirtyWorkingTree(t *testing.T) {
	t.Parallel()
	got := resolveVersion("", fakeBuildInfo("(devel)",
		debug.BuildSetting{Key: "vcs.revision", Value: "abc1234"},
		debug.BuildSetting{Key: "vcs.modified", Value: "true"},
	))
	require.Equal(t, "dev-abc1234-dirty", got)
}

func TestResolveVersion_NoBuildInfo(t *testing.T) {
	t.Parallel()
	require.Equal(t, "dev", resolveVersion("", noBuildInfo))
	require.Equal(t, "dev", resolveVersion("  ", fakeBuildInfo("")))
}

func TestResolveNeverEmpty(t *testing.T) {
	t.Parallel()
	require.NotEmpty(t, Resolve())
}
