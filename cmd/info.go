package cmd

import (
	"github.com/spf13/cobra"
)

// infoCmd represents the info command.
var infoCmd = newInfoCmd()

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print a JSON summary of the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			project, err := discoverProject(cmd)
			if err != nil {
				return err
			}

			info, err := project.Info()
			if err != nil {
				return err
			}

			cmd.Println(info)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
