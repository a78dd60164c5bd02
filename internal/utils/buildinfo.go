package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// Version is set at link time with -ldflags "-X github.com/temirov/mdtree/internal/utils.Version=v1.2.3".
var Version = ""

// GetApplicationVersion reports the version embedded at link time, then the
// module version from build info, then git describe output for source builds.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	// #nosec G204
	describeOutput, describeError := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if describeError == nil && len(describeOutput) > 0 {
		return strings.TrimSpace(string(describeOutput))
	}
	return unknownVersion
}
