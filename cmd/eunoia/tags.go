package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Manage tags",
	Long:  `Provides commands for listing, creating and deleting tags.`,
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tags with entry counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tags, err := a.Services.Tags.GetTags(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
			return nil
		}
		for _, t := range tags {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", t.Name, t.Count)
		}
		return nil
	},
}

var tagCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tag, err := a.Services.Tags.CreateTag(cmdContext(cmd), args[0])
		if err != nil {
			return fmt.Errorf("failed to create tag: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tag '%s' created.\n", tag.Name)
		return nil
	},
}

var tagDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a tag and remove it from every entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Services.Tags.DeleteTag(cmdContext(cmd), args[0]); err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Tag '%s' deleted.\n", args[0])
		return nil
	},
}

func initTagsCmd() {
	tagsCmd.AddCommand(tagListCmd, tagCreateCmd, tagDeleteCmd)
}
