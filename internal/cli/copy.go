package cli

import (
	"os"

	"github.com/spf13/cobra"

	"deploytrace/internal/deploy"
)

func newCopyCmd(a *app) *cobra.Command {
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   "copy <source> <destination>",
		Short: "Copy a file or directory and trace each step",
		Long: `Copy a file or a directory tree. Progress and failures are written to
the trace log under the Copier source.

Examples:
  deploytrace copy setup.msi C:/Temp/
  deploytrace copy ./payload /opt/app --continue-on-error`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.load(true)
			if err != nil {
				return a.fail(err)
			}
			d, err := a.dispatcher(m)
			if err != nil {
				return a.fail(err)
			}

			c := deploy.NewCopier(d, continueOnError)
			src, dst := args[0], args[1]

			if info, statErr := os.Stat(src); statErr == nil && info.IsDir() {
				err = c.CopyDir(src, dst)
			} else {
				err = c.CopyFile(src, dst)
			}
			if err != nil {
				return a.fail(err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Log failures without failing the command")
	return cmd
}
