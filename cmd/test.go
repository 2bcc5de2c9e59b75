package cmd

import (
	"github.com/spf13/cobra"
)

// testCmd represents the test command.
var testCmd = newTestCmd()

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <file> [tests...]",
		Short: "Run tests in a test file",
		Long: `Compiles the named test file and runs it with the JUnit console launcher.
Naming individual test methods restricts the run to those methods; otherwise
every discovered test method in the file runs.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := discoverProject(cmd)
			if err != nil {
				return err
			}

			file, err := project.Identify(args[0])
			if err != nil {
				return err
			}

			output, err := file.Test(cmd.Context(), args[1:], project)
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
	rootCmd.AddCommand(testCmd)
}
