package cmd

import (
	"github.com/spf13/cobra"
)

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Compile and run a file's main method",
		Long:  "Compiles the named file and runs its main method with stdin passed through.",
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

			output, err := file.Run(cmd.Context(), nil)
			if err != nil {
				printOpErrorOutput(cmd, err)
				return err
			}

			cmd.Print(output)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
