package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage journal entries",
	Long:  `Provides commands for creating, listing, getting, updating, and deleting journal entries.`,
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries matching a filter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		page, err := a.Services.Entries.GetEntries(cmdContext(cmd), f)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		if page.Total == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No entries found.")
			return nil
		}
		return printJSON(cmd, page)
	},
}

func filterFromFlags(cmd *cobra.Command) (journal.EntryFilter, error) {
	flags := cmd.Flags()
	search, _ := flags.GetString("search")
	tags, _ := flags.GetString("tags")
	sentiment, _ := flags.GetString("sentiment")
	sortBy, _ := flags.GetString("sort")
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")

	f := journal.EntryFilter{
		Search:    search,
		Tags:      splitList(tags),
		Sentiment: journal.SentimentCategory(sentiment),
		SortBy:    journal.SortOrder(sortBy),
		Limit:     limit,
		Offset:    offset,
	}
	if from, _ := flags.GetString("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return f, fmt.Errorf("invalid --from date: %w", err)
		}
		f.DateRange.From = t
	}
	if to, _ := flags.GetString("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return f, fmt.Errorf("invalid --to date: %w", err)
		}
		f.DateRange.To = t.Add(24*time.Hour - time.Nanosecond)
	}
	return f, f.Validate()
}

var entryGetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a specific entry by its ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID format: %w", err)
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.Services.Entries.GetEntry(cmdContext(cmd), id)
		if err != nil {
			return fmt.Errorf("failed to get entry: %w", err)
		}
		return printJSON(cmd, e)
	},
}

var entryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new entry",
	Long:  `Creates a new entry. Sentiment and topics are derived from the text.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		content, _ := cmd.Flags().GetString("content")
		contentType, _ := cmd.Flags().GetString("content-type")
		tags, _ := cmd.Flags().GetString("tags")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.Services.Entries.CreateEntry(cmdContext(cmd), journal.EntryDraft{
			Title: title, Content: content, ContentType: contentType, Tags: splitList(tags),
		})
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Entry created successfully:")
		return printJSON(cmd, e)
	},
}

var entryUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update an existing entry",
	Long:  `Updates an existing entry. Only provided fields are changed.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID format: %w", err)
		}

		var patch journal.EntryPatch
		flags := cmd.Flags()
		if flags.Changed("title") {
			v, _ := flags.GetString("title")
			patch.Title = &v
		}
		if flags.Changed("content") {
			v, _ := flags.GetString("content")
			patch.Content = &v
		}
		if flags.Changed("content-type") {
			v, _ := flags.GetString("content-type")
			patch.ContentType = &v
		}
		if flags.Changed("tags") {
			v, _ := flags.GetString("tags")
			tags := splitList(v)
			if tags == nil {
				tags = []string{}
			}
			patch.Tags = &tags
		}
		if flags.Changed("sentiment") {
			v, _ := flags.GetFloat64("sentiment")
			patch.Sentiment = &v
		}
		if patch == (journal.EntryPatch{}) {
			return fmt.Errorf("no fields to update; use --title, --content, --content-type, --tags or --sentiment")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.Services.Entries.UpdateEntry(cmdContext(cmd), id, patch)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Entry updated successfully:")
		return printJSON(cmd, e)
	},
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid entry ID format: %w", err)
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Services.Entries.DeleteEntry(cmdContext(cmd), id); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Entry %s deleted.\n", id)
		return nil
	},
}

var entryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Services.Entries.GetStats(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		return printJSON(cmd, stats)
	},
}

var entryTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List entry templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		list, err := a.Services.Entries.Templates(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		return printJSON(cmd, list)
	},
}

var entryFromTemplateCmd = &cobra.Command{
	Use:   "from-template [template-id]",
	Short: "Create an entry from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.Services.Entries.CreateFromTemplate(cmdContext(cmd), args[0])
		if err != nil {
			return fmt.Errorf("failed to create entry from template: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Entry created successfully:")
		return printJSON(cmd, e)
	},
}

func initEntriesCmd() {
	entryListCmd.Flags().StringP("search", "s", "", "Case-insensitive text to search in titles and content")
	entryListCmd.Flags().StringP("tags", "t", "", "Comma-separated tags; entries with any of them match")
	entryListCmd.Flags().String("sentiment", "", "Sentiment category: positive, neutral or negative")
	entryListCmd.Flags().String("from", "", "Earliest creation date (YYYY-MM-DD)")
	entryListCmd.Flags().String("to", "", "Latest creation date (YYYY-MM-DD), inclusive")
	entryListCmd.Flags().String("sort", "", "Sort order: date (default) or sentiment")
	entryListCmd.Flags().Int("limit", 0, "Maximum number of entries (0 for all)")
	entryListCmd.Flags().Int("offset", 0, "Number of matching entries to skip")

	entryCreateCmd.Flags().StringP("title", "t", "", "Title of the entry")
	entryCreateCmd.Flags().StringP("content", "c", "", "Content of the entry")
	entryCreateCmd.Flags().String("content-type", "", "Content type of the entry (defaults to text/html)")
	entryCreateCmd.Flags().String("tags", "", "Comma-separated list of tags for the entry")

	entryUpdateCmd.Flags().StringP("title", "t", "", "New title for the entry")
	entryUpdateCmd.Flags().StringP("content", "c", "", "New content for the entry")
	entryUpdateCmd.Flags().String("content-type", "", "New content type for the entry")
	entryUpdateCmd.Flags().String("tags", "", "Comma-separated tags replacing the current set")
	entryUpdateCmd.Flags().Float64("sentiment", 0, "Override the sentiment score (-1 to 1)")

	entriesCmd.AddCommand(entryListCmd, entryGetCmd, entryCreateCmd, entryUpdateCmd, entryDeleteCmd,
		entryStatsCmd, entryTemplatesCmd, entryFromTemplateCmd)
}
