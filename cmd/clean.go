package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
)

// cleanCmd represents the clean command.
var cleanCmd = newCleanCmd()

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove compiled classes, downloaded jars, and reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root := viper.GetString(rootConfigKey)
			if root == "" {
				root = defaultProjectRoot
			}

			paths := java.NewPaths(root)

			for _, dir := range []string{paths.Build, paths.Lib, paths.Meta} {
				if err := os.RemoveAll(dir); err != nil {
					return fmt.Errorf("failed to remove %s: %w", dir, err)
				}

				slog.Debug("removed directory", "path", dir)
			}

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
