// Package cmd contains CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/careerclimb/careerclimb/cli/internal/client"
	"github.com/careerclimb/careerclimb/cli/internal/config"
	"github.com/careerclimb/careerclimb/cli/internal/output"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	cfg     *config.Config
	api     *client.Client
	cfgFile string
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "careerclimb",
	Short: "CareerClimb CLI - AI career tools from the terminal",
	Long: `CareerClimb talks to the completion gateway to analyze resumes,
draft application material and manage your history.

Examples:
  # Analyze a resume against a job description
  careerclimb resume analyze --resume cv.pdf --job job.txt

  # Run a raw completion task
  careerclimb complete --type email_generation "Reply to a recruiter, friendly tone"

  # Export your history
  careerclimb history export > history.json
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env in the working directory supplies CAREERCLIMB_* defaults.
		_ = godotenv.Load()

		v := config.New()
		flags := cmd.Flags()
		for key, flag := range map[string]string{
			"api_url": "api-url",
			"user_id": "user",
			"format":  "output",
			"verbose": "verbose",
		} {
			if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
				return err
			}
		}
		if err := config.ReadFile(v, cfgFile); err != nil {
			return err
		}

		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = loaded
		api = client.New(cfg.APIURL, cfg.UserID, cfg.Timeout)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default ~/.careerclimb.yaml)")
	flags.String("api-url", "", "Gateway base URL")
	flags.String("user", "", "User ID sent with each request")
	flags.StringP("output", "o", "", "Output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(interviewCmd)
	rootCmd.AddCommand(linkedinCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints version info.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("careerclimb version %s\n", Version)
	},
}

func writer(cmd *cobra.Command) *output.Writer {
	return output.NewWriterTo(cfg.Format, cmd.OutOrStdout())
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), cfg.Timeout)
}

// readText returns the contents of path, or stdin when path is "-".
func readText(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// textArg returns the inline value when set, otherwise the file contents.
func textArg(cmd *cobra.Command, inline, file string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if file != "" {
		return readText(file, cmd.InOrStdin())
	}
	return "", nil
}
