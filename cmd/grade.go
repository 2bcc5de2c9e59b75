package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DhruvDh/umm-next-sub000/internal/grade"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
)

var gradeConfigFlag string
var feedbackFlag bool

// gradeCmd represents the grade command.
var gradeCmd = newGradeCmd()

func newGradeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade the submission against a grading configuration",
		Long: `Reads a YAML list of grader configurations, runs each grader against the
submission, and prints a grade report. With --feedback, the context each
imperfect grade assembles is written under the submission's metadata
directory for the feedback layer to pick up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath := viper.GetString(gradeConfigConfigKey)

			data, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("failed to read grading config %s: %w", configPath, err)
			}

			graders, err := grade.ParseConfig(data)
			if err != nil {
				return err
			}

			project, err := discoverProject(cmd)
			if err != nil {
				return err
			}

			gc := grade.NewContext(project, toolRunner)
			gc.WithFeedback = viper.GetBool(feedbackConfigKey)
			gc.Out = cmd.OutOrStdout()

			results := make([]m.GradeResult, 0, len(graders))

			for _, grader := range graders {
				result, err := grader.Run(cmd.Context(), gc)
				if err != nil {
					return err
				}

				slog.Debug("graded requirement",
					"requirement", result.Requirement,
					"grade", result.Grade.String(),
				)

				results = append(results, result)
			}

			printGradeReport(cmd, results)

			if gc.WithFeedback {
				if err := writeFeedback(project.Paths().Meta, results); err != nil {
					return err
				}
			}

			return nil
		},
	}

	configureGradeFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(gradeCmd)
}

func configureGradeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&gradeConfigFlag, gradeConfigFlagName, "c", viper.GetString(gradeConfigConfigKey), "grading configuration file")
	bindFlagToConfig(cmd.Flags().Lookup(gradeConfigFlagName), gradeConfigConfigKey)

	cmd.Flags().BoolVar(&feedbackFlag, feedbackFlagName, viper.GetBool(feedbackConfigKey), "assemble feedback context for imperfect grades")
	bindFlagToConfig(cmd.Flags().Lookup(feedbackFlagName), feedbackConfigKey)
}

func printGradeReport(cmd *cobra.Command, results []m.GradeResult) {
	var score, outOf float64

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Requirement", "Grade", "Reason"})

	for _, result := range results {
		score += result.Grade.Score
		outOf += result.Grade.OutOf

		table.Append([]string{
			result.Requirement,
			result.Grade.String(),
			firstLine(result.Reason),
		})
	}

	table.SetCaption(true, fmt.Sprintf("Total: %.2f/%.2f", score, outOf))
	table.Render()
}

// writeFeedback stores each imperfect result's feedback context as markdown
// under the metadata directory. Delivery is someone else's job; the files
// are the hand-off point.
func writeFeedback(metaDir string, results []m.GradeResult) error {
	dir := filepath.Join(metaDir, "feedback")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create feedback directory %s: %w", dir, err)
	}

	for i, result := range results {
		if result.Feedback == nil {
			continue
		}

		var b strings.Builder

		fmt.Fprintf(&b, "# %s (%s)\n\n", result.Requirement, result.Grade.String())

		for _, msg := range result.Feedback.Messages {
			fmt.Fprintf(&b, "## %s\n\n%s\n\n", msg.Role, msg.Content)
		}

		path := filepath.Join(dir, fmt.Sprintf("%02d-feedback.md", i+1))
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			return fmt.Errorf("failed to write feedback file %s: %w", path, err)
		}
	}

	return nil
}

func firstLine(s string) string {
	if line, _, ok := strings.Cut(s, "\n"); ok {
		return line
	}

	return s
}
