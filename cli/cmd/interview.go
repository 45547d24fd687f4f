package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careerclimb/careerclimb/services/career"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Interview preparation",
}

var interviewQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Generate likely interview questions for a job",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		company, _ := cmd.Flags().GetString("company")
		jobFile, _ := cmd.Flags().GetString("job")

		job, err := textArg(cmd, "", jobFile)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		list, err := api.GenerateInterviewQuestions(ctx, career.QuestionsInput{
			JobTitle:       title,
			Company:        company,
			JobDescription: job,
		})
		if err != nil {
			return fmt.Errorf("interview questions failed: %w", err)
		}

		w := writer(cmd)
		if w.Structured() {
			return w.Print(list)
		}
		for i, q := range list.Questions {
			cmd.Printf("%d. %s\n", i+1, q)
		}
		return nil
	},
}

func init() {
	interviewQuestionsCmd.Flags().String("title", "", "Job title")
	interviewQuestionsCmd.Flags().String("company", "", "Company name")
	interviewQuestionsCmd.Flags().StringP("job", "j", "", "Job description file, - for stdin")
	_ = interviewQuestionsCmd.MarkFlagRequired("title")

	interviewCmd.AddCommand(interviewQuestionsCmd)
}
