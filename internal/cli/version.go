package cli

import (
	"fmt"
	"runtime"

	"github.com/ariel-frischer/keepachangelog/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for kacl",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), build.Summary())
			return
		}
		printVersion(cmd)
	},
}

func init() {
	versionCmd.GroupID = GroupView
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print a single line")
}

func printVersion(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	label := color.New(color.FgYellow).SprintFunc()
	value := color.New(color.Bold).SprintFunc()

	info := []struct {
		label string
		value string
	}{
		{"kacl", build.Version},
		{"commit", truncateCommit(build.Commit)},
		{"built", build.BuildDate},
		{"go", runtime.Version()},
		{"platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}
	for _, item := range info {
		fmt.Fprintf(out, "%s: %s\n", label(item.label), value(item.value))
	}
	if build.IsDevBuild() {
		fmt.Fprintln(out, "(development build)")
	}
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
