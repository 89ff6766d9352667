package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/aria/guardrail"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [message]",
	Short: "Show guardrail rules, or check a message against them",
	Args:  cobra.ArbitraryArgs,
	RunE:  runRules,
}

func runRules(cmd *cobra.Command, args []string) error {
	app, err := loadConfig()
	if err != nil {
		return err
	}

	rules := guardrail.DefaultRules()
	if path := app.Engine.Guardrail.RulesPath; path != "" {
		if rules, err = guardrail.LoadRulesFile(path); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		fmt.Fprintf(out, "prompt protection: %d phrases\n", len(rules.PromptProtection.Phrases))
		for _, t := range rules.RestrictedTopics {
			fmt.Fprintf(out, "%-12s %s\n", t.ID, strings.Join(t.Keywords, ", "))
		}
		return nil
	}

	f, err := guardrail.New(rules)
	if err != nil {
		return err
	}
	d := f.Check(strings.Join(args, " "))
	if d.Proceed {
		fmt.Fprintln(out, "allowed")
		return nil
	}
	fmt.Fprintf(out, "blocked (%s): %s\n", d.Reason, d.Response)
	return nil
}
