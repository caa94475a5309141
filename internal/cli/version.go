package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"deploytrace/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show detailed version information including build time and git commit.

Example:
  deploytrace version
  deploytrace version --short`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(a.out, version.GetShortVersion())
				return
			}
			fmt.Fprintf(a.out, "deploytrace %s\n", version.GetVersion())
			fmt.Fprintf(a.out, "%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
