package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careerclimb/careerclimb/cli/internal/output"
	"github.com/careerclimb/careerclimb/services/gateway"
)

var completeCmd = &cobra.Command{
	Use:   "complete [prompt]",
	Short: "Run a raw completion task",
	Long: `Send a prompt to the gateway under one of the supported task types.
The prompt is taken from the argument, or from --file ("-" for stdin).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, _ := cmd.Flags().GetString("type")
		file, _ := cmd.Flags().GetString("file")

		var inline string
		if len(args) == 1 {
			inline = args[0]
		}
		prompt, err := textArg(cmd, inline, file)
		if err != nil {
			return err
		}
		if prompt == "" {
			return fmt.Errorf("a prompt argument or --file is required")
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		resp, err := api.Complete(ctx, task, prompt)
		if err != nil {
			return fmt.Errorf("completion failed: %w", err)
		}
		if cfg.Verbose {
			output.Info("answered by %s (%s)", resp.Provider, resp.ProviderRole)
		}
		return writer(cmd).Result(resp.Response, resp)
	},
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List supported task types",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		tasks, err := api.Tasks(ctx)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		w := writer(cmd)
		if w.Structured() {
			return w.Print(tasks)
		}

		table := output.Table{
			Headers: []string{"TYPE", "MAX TOKENS", "FORMAT"},
			Rows:    make([][]string, len(tasks)),
		}
		for i, t := range tasks {
			format := "text"
			if t.JSON {
				format = "json"
			}
			table.Rows[i] = []string{t.Type, strconv.Itoa(t.MaxTokens), format}
		}
		return w.Print(table)
	},
}

func init() {
	completeCmd.Flags().StringP("type", "t", "", "Task type (see 'careerclimb tasks')")
	completeCmd.Flags().StringP("file", "f", "", "Read the prompt from a file, - for stdin")
	_ = completeCmd.MarkFlagRequired("type")

	names := make([]string, 0, len(gateway.TaskTypes()))
	for _, t := range gateway.TaskTypes() {
		names = append(names, string(t))
	}
	completeCmd.Long += "\n\nTask types: " + strings.Join(names, ", ")
}
