package cli

import (
	"path/filepath"
	"strings"
)

const artifactSuffix = "_alynx.json"

func defaultArtifactPath(audioPath string) string {
	return trimExt(audioPath) + artifactSuffix
}

func defaultLRCPath(jsonPath string) string {
	return trimExt(jsonPath) + ".lrc"
}

// trimExt drops the extension of the last path element. Leading dots do not
// start an extension, so ".env" and "dir/..hidden" are returned unchanged.
func trimExt(path string) string {
	sep := strings.LastIndexAny(path, "/"+string(filepath.Separator))
	name := path[sep+1:]

	leading := len(name) - len(strings.TrimLeft(name, "."))
	dot := strings.LastIndexByte(name[leading:], '.')
	if dot < 0 {
		return path
	}
	return path[:sep+1+leading+dot]
}
