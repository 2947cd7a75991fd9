package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/unowned-ai/eunoia/pkg/app"
	"github.com/unowned-ai/eunoia/pkg/journal"
)

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Manage writing reminders",
	Long:  `Provides commands for listing, creating, updating and deleting the reminders of an account.`,
}

var reminderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reminders with their next occurrence",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmdContext(cmd)
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		u, err := currentUser(ctx, cmd, a)
		if err != nil {
			return err
		}

		list, err := a.Services.Reminders.List(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to list reminders: %w", err)
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No reminders found.")
			return nil
		}
		now := time.Now()
		for _, r := range list {
			next := "disabled"
			if r.Enabled {
				if sched, err := journal.Schedule(r); err == nil {
					next = sched.Next(now).Format(time.RFC1123)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s [%s]  %q  next: %s\n",
				r.ID, r.Time, strings.Join(r.Days, ","), r.Message, next)
		}
		return nil
	},
}

var reminderCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a reminder",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in journal.ReminderInput
		in.Time, _ = cmd.Flags().GetString("time")
		in.Message, _ = cmd.Flags().GetString("message")
		days, _ := cmd.Flags().GetString("days")
		in.Days = splitList(days)
		if cmd.Flags().Changed("disabled") {
			disabled, _ := cmd.Flags().GetBool("disabled")
			enabled := !disabled
			in.Enabled = &enabled
		}

		ctx := cmdContext(cmd)
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		u, err := currentUser(ctx, cmd, a)
		if err != nil {
			return err
		}

		r, err := a.Services.Reminders.Create(ctx, u.ID, in)
		if err != nil {
			return fmt.Errorf("failed to create reminder: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Reminder created successfully:")
		return printJSON(cmd, r)
	},
}

var reminderUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid reminder ID format: %w", err)
		}

		var patch journal.ReminderPatch
		flags := cmd.Flags()
		if flags.Changed("time") {
			v, _ := flags.GetString("time")
			patch.Time = &v
		}
		if flags.Changed("message") {
			v, _ := flags.GetString("message")
			patch.Message = &v
		}
		if flags.Changed("days") {
			v, _ := flags.GetString("days")
			days := splitList(v)
			patch.Days = &days
		}
		if flags.Changed("enabled") {
			v, _ := flags.GetBool("enabled")
			patch.Enabled = &v
		}
		if patch == (journal.ReminderPatch{}) {
			return fmt.Errorf("no fields to update; use --time, --days, --message or --enabled")
		}

		ctx := cmdContext(cmd)
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := requireOwnReminder(cmd, a, id); err != nil {
			return err
		}

		r, err := a.Services.Reminders.Update(ctx, id, patch)
		if err != nil {
			return fmt.Errorf("failed to update reminder: %w", err)
		}
		return printJSON(cmd, r)
	},
}

var reminderDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a reminder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid reminder ID format: %w", err)
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := requireOwnReminder(cmd, a, id); err != nil {
			return err
		}

		if err := a.Services.Reminders.Delete(cmdContext(cmd), id); err != nil {
			return fmt.Errorf("failed to delete reminder: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reminder %s deleted.\n", id)
		return nil
	},
}

var reminderNextCmd = &cobra.Command{
	Use:   "next [id]",
	Short: "Show when a reminder fires next",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid reminder ID format: %w", err)
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := requireOwnReminder(cmd, a, id); err != nil {
			return err
		}

		next, err := a.Services.Reminders.Next(cmdContext(cmd), id, time.Now())
		if err != nil {
			return fmt.Errorf("failed to compute next occurrence: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), next.Format(time.RFC1123))
		return nil
	},
}

// requireOwnReminder fails unless id belongs to the signed-in account.
func requireOwnReminder(cmd *cobra.Command, a *app.App, id uuid.UUID) error {
	ctx := cmdContext(cmd)
	u, err := currentUser(ctx, cmd, a)
	if err != nil {
		return err
	}
	list, err := a.Services.Reminders.List(ctx, u.ID)
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	for _, r := range list {
		if r.ID == id {
			return nil
		}
	}
	return journal.ErrReminderNotFound
}

func initRemindersCmd() {
	addCredentialFlags(remindersCmd)

	reminderCreateCmd.Flags().String("time", "", "Time of day, HH:MM (24h)")
	reminderCreateCmd.Flags().String("days", "", "Comma-separated weekdays or 'everyday' (default everyday)")
	reminderCreateCmd.Flags().StringP("message", "m", "", "Reminder message")
	reminderCreateCmd.Flags().Bool("disabled", false, "Create the reminder disabled")

	reminderUpdateCmd.Flags().String("time", "", "New time of day, HH:MM")
	reminderUpdateCmd.Flags().String("days", "", "New comma-separated weekdays")
	reminderUpdateCmd.Flags().StringP("message", "m", "", "New message")
	reminderUpdateCmd.Flags().Bool("enabled", true, "Enable or disable the reminder")

	remindersCmd.AddCommand(reminderListCmd, reminderCreateCmd, reminderUpdateCmd, reminderDeleteCmd, reminderNextCmd)
}
