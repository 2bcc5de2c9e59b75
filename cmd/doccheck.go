package cmd

import (
	"github.com/spf13/cobra"
)

// docCheckCmd represents the doc-check command.
var docCheckCmd = newDocCheckCmd()

func newDocCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doc-check <file>",
		Short: "Check a file's documentation",
		Long:  "Compiles the named file with documentation lints enabled and prints every javadoc diagnostic.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := discoverProject(cmd)
			if err != nil {
				return err
			}

			file, err := project.Identify(args[0])
			if err != nil {
				return err
			}

			output, err := file.DocCheck(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Print(output)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(docCheckCmd)
}
