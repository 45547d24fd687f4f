package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careerclimb/careerclimb/cli/internal/output"
	"github.com/careerclimb/careerclimb/services/career"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume tools",
}

var resumeAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long: `Analyze a resume against a job description. PDF and DOCX resumes are
converted to text locally before they are sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resumePath, _ := cmd.Flags().GetString("resume")
		jobFile, _ := cmd.Flags().GetString("job")
		jobText, _ := cmd.Flags().GetString("job-text")

		resume, err := loadResume(resumePath)
		if err != nil {
			return err
		}
		job, err := textArg(cmd, jobText, jobFile)
		if err != nil {
			return err
		}
		if job == "" {
			return fmt.Errorf("--job or --job-text is required")
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		report, err := api.AnalyzeResume(ctx, career.ResumeInput{
			Resume:         resume,
			JobDescription: job,
			FileName:       filepath.Base(resumePath),
		})
		if err != nil {
			return fmt.Errorf("resume analysis failed: %w", err)
		}

		w := writer(cmd)
		if w.Structured() {
			return w.Print(report)
		}

		if report.Score != nil {
			output.Success("score %d/100 (%s)", *report.Score, report.Provider)
		}
		if report.Feedback != "" {
			cmd.Println(report.Feedback)
		}
		if len(report.WeakLines) == 0 {
			return nil
		}

		cmd.Println()
		table := output.Table{
			Headers: []string{"IMPACT", "LINE", "SUGGESTION"},
			Rows:    make([][]string, len(report.WeakLines)),
		}
		for i, wl := range report.WeakLines {
			table.Rows[i] = []string{
				string(wl.Impact),
				output.Truncate(wl.Original, 50),
				output.Truncate(wl.Suggestion, 60),
			}
		}
		return w.Print(table)
	},
}

var resumeExtractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Print the plain text of a PDF, DOCX or text resume",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := loadResume(args[0])
		if err != nil {
			return err
		}
		return writer(cmd).Result(text, map[string]string{"text": text})
	},
}

// loadResume reads a resume file and converts it to plain text.
func loadResume(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--resume is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	mimeType := career.MIMEFromFilename(path)
	if mimeType == "" {
		mimeType = career.MIMEText
	}
	text, err := career.ExtractResumeText(mimeType, data)
	if err != nil {
		return "", fmt.Errorf("failed to extract resume text: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func init() {
	resumeAnalyzeCmd.Flags().StringP("resume", "r", "", "Resume file (.pdf, .docx, .txt)")
	resumeAnalyzeCmd.Flags().StringP("job", "j", "", "Job description file, - for stdin")
	resumeAnalyzeCmd.Flags().String("job-text", "", "Job description text")

	resumeCmd.AddCommand(resumeAnalyzeCmd)
	resumeCmd.AddCommand(resumeExtractCmd)
}
