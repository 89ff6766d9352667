package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/aria/tools"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List or call the assistant's functions",
}

var functionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List callable functions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, fn := range tools.Builtin(nil).List() {
			params, err := json.Marshal(fn.Parameters)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\n  %s\n  parameters: %s\n", fn.Name, fn.Description, params)
		}
		return nil
	},
}

var functionsCallCmd = &cobra.Command{
	Use:   "call <name> [json-arguments]",
	Short: "Call a function directly",
	Example: `  aria functions call calculator '{"expression":"12*4"}'
  aria functions call define_word '{"word":"algorithm"}'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw json.RawMessage
		if len(args) == 2 {
			raw = json.RawMessage(args[1])
		}

		res, err := tools.Builtin(nil).Call(cmd.Context(), args[0], raw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Content)
		if res.IsError {
			return fmt.Errorf("%s reported an error", args[0])
		}
		return nil
	},
}

func init() {
	functionsCmd.AddCommand(functionsListCmd, functionsCallCmd)
}
