package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// textArg joins args, or reads stdin when there are none.
func textArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze the sentiment, keywords and topics of a text",
	Long:  `Analyzes the given text, or stdin when no text is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := textArg(cmd, args)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.Services.AI.AnalyzeText(cmdContext(cmd), text)
		if err != nil {
			return fmt.Errorf("failed to analyze text: %w", err)
		}
		return printJSON(cmd, res)
	},
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Suggest writing prompts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, _ := cmd.Flags().GetInt("count")
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		gen, err := a.Services.AI.WritingPrompts(cmdContext(cmd), n)
		if err != nil {
			return fmt.Errorf("failed to generate prompts: %w", err)
		}
		for _, p := range gen.Items {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+p)
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [text...]",
	Short: "Suggest a follow-up reflection for a draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := textArg(cmd, args)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		gen, err := a.Services.AI.Suggest(cmdContext(cmd), text)
		if err != nil {
			return fmt.Errorf("failed to suggest: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n(%s)\n", strings.Join(gen.Items, "\n"), gen.Source)
		return nil
	},
}

func initAICmd() {
	promptsCmd.Flags().IntP("count", "n", 3, "Number of prompts (1-10)")
}
