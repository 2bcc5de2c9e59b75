// Package cmd provides the root command and CLI setup for umm.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/DhruvDh/umm-next-sub000/internal/java"
	"github.com/DhruvDh/umm-next-sub000/internal/process"
)

// toolRunner spawns javac/java for every command; tests swap in a stub.
var toolRunner process.Runner = process.NewExecRunner()

// projectRootFlag is a root-level flag naming the submission directory.
var projectRootFlag string

// verboseFlag forces debug logging when set.
var verboseFlag bool

// logFileFlag overrides the log file location.
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)
}

const rootLongDescription = `umm is an autograder for introductory Java coursework. It discovers the
Java sources under a submission directory, compiles and runs them with the
local JDK, and scores the submission against an instructor-provided grading
configuration.

Most commands operate on the current directory; point --root elsewhere to
grade a submission in place.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "umm",
		Short: "Java coursework autograder",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&projectRootFlag, rootFlagName, "r",
			viper.GetString(rootConfigKey),
			"root directory of the submission to grade",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rootFlagName), rootConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", viper.GetString(logFilenameKey), "log file location")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("log-file"), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// discoverProject walks the configured submission root and parses every Java
// source in it.
func discoverProject(cmd *cobra.Command) (*java.Project, error) {
	root := viper.GetString(rootConfigKey)
	if root == "" {
		root = defaultProjectRoot
	}

	project, err := java.Discover(cmd.Context(), root, toolRunner)
	if err != nil {
		return nil, fmt.Errorf("failed to discover project at %s: %w", root, err)
	}

	return project, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
