package main

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/aretw0/newsmeme"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the newsmeme version and build details",
	RunE: func(cmd *cobra.Command, args []string) error {
		short, _ := cmd.Flags().GetBool("short")
		info, _ := debug.ReadBuildInfo()
		return printVersion(cmd.OutOrStdout(), info, short)
	},
}

// printVersion writes the release version and, unless short, the Go
// toolchain and VCS revision recorded in info (which may be nil).
func printVersion(w io.Writer, info *debug.BuildInfo, short bool) error {
	version := strings.TrimSpace(newsmeme.Version)
	if short || info == nil {
		_, err := fmt.Fprintln(w, version)
		return err
	}

	revision, dirty := "unknown", false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
			if len(revision) > 12 {
				revision = revision[:12]
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty {
		revision += "-dirty"
	}

	_, err := fmt.Fprintf(w, "newsmeme %s (%s, %s)\n", version, revision, info.GoVersion)
	return err
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version number")
}
