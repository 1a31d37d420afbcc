package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the langmentor version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString(version, readBuildInfo()))
	},
}

func readBuildInfo() *debug.BuildInfo {
	info, _ := debug.ReadBuildInfo()
	return info
}

// versionString reports v, falling back to the module version and VCS
// revision recorded by `go install` for untagged builds.
func versionString(v string, info *debug.BuildInfo) string {
	if v == "(devel)" && info != nil && info.Main.Version != "" {
		v = info.Main.Version
	}
	if info != nil {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return fmt.Sprintf("langmentor %s (%s)", v, s.Value[:7])
			}
		}
	}
	return "langmentor " + v
}
