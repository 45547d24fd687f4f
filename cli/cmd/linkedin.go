package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careerclimb/careerclimb/cli/internal/output"
	"github.com/careerclimb/careerclimb/services/career"
)

var linkedinCmd = &cobra.Command{
	Use:   "linkedin",
	Short: "LinkedIn profile tools",
}

var linkedinOptimizeCmd = &cobra.Command{
	Use:       "optimize <headline|connection_strategy|content_ideas>",
	Short:     "Generate LinkedIn headlines, a connection strategy or post ideas",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"headline", "connection_strategy", "content_ideas"},
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		role, _ := flags.GetString("role")
		industry, _ := flags.GetString("industry")
		target, _ := flags.GetString("target-role")
		experience, _ := flags.GetString("experience")
		skills, _ := flags.GetStringSlice("skills")
		profile, _ := flags.GetString("profile")

		if _, err := career.ProfileTask(args[0]); err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := api.OptimizeProfile(ctx, career.ProfileRequest{
			Type:           args[0],
			CurrentRole:    role,
			Industry:       industry,
			TargetRole:     target,
			Experience:     experience,
			Skills:         skills,
			CurrentProfile: profile,
		})
		if err != nil {
			return fmt.Errorf("linkedin optimization failed: %w", err)
		}

		w := writer(cmd)
		if w.Structured() {
			return w.Print(result)
		}
		return printProfileResult(cmd, w, result)
	},
}

func printProfileResult(cmd *cobra.Command, w *output.Writer, result *career.ProfileResult) error {
	switch {
	case result.Strategy != nil:
		s := result.Strategy
		cmd.Printf("Daily connections: %d\n", s.DailyConnections)
		for _, section := range []struct {
			title string
			items []string
		}{
			{"Target profiles", s.TargetProfiles},
			{"Message templates", s.MessageTemplates},
			{"Engagement tips", s.EngagementTips},
			{"Industry advice", s.IndustrySpecificAdvice},
		} {
			if len(section.items) == 0 {
				continue
			}
			cmd.Printf("\n%s:\n", section.title)
			for _, item := range section.items {
				cmd.Printf("  - %s\n", item)
			}
		}
		return nil

	case len(result.Ideas) > 0:
		table := output.Table{
			Headers: []string{"TYPE", "TITLE", "HASHTAGS"},
			Rows:    make([][]string, len(result.Ideas)),
		}
		for i, idea := range result.Ideas {
			table.Rows[i] = []string{idea.Type, output.Truncate(idea.Title, 50), strings.Join(idea.Hashtags, " ")}
		}
		return w.Print(table)

	default:
		table := output.Table{
			Headers: []string{"#", "HEADLINE"},
			Rows:    make([][]string, len(result.Suggestions)),
		}
		for i, s := range result.Suggestions {
			table.Rows[i] = []string{strconv.Itoa(i + 1), s}
		}
		return w.Print(table)
	}
}

func init() {
	flags := linkedinOptimizeCmd.Flags()
	flags.String("role", "", "Current role")
	flags.String("industry", "", "Industry")
	flags.String("target-role", "", "Role you are aiming for")
	flags.String("experience", "", "Years or summary of experience")
	flags.StringSlice("skills", nil, "Comma-separated skills")
	flags.String("profile", "", "Current profile text")
	_ = linkedinOptimizeCmd.MarkFlagRequired("role")
	_ = linkedinOptimizeCmd.MarkFlagRequired("industry")

	linkedinCmd.AddCommand(linkedinOptimizeCmd)
}
