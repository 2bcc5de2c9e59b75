package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
)

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Compile a single file",
		Long:  "Compiles the named file with javac, printing any compiler diagnostics.",
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

			output, err := file.Check(cmd.Context())
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
	rootCmd.AddCommand(checkCmd)
}

// printOpErrorOutput surfaces the tool transcript a file operation captured
// before the command's error message is printed.
func printOpErrorOutput(cmd *cobra.Command, err error) {
	var opErr *java.OpError
	if errors.As(err, &opErr) && opErr.Output != "" {
		cmd.PrintErrln(opErr.Output)
	}
}
