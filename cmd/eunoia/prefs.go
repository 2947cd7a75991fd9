package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show and change account preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show preferences",
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

		p, err := a.Services.Preferences.Get(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to load preferences: %w", err)
		}
		return printJSON(cmd, p)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change preferences",
	Long: `Changes only the preferences given as flags. Privacy flags are applied on top
of the stored privacy settings and saved as one block.`,
	Args: cobra.NoArgs,
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

		flags := cmd.Flags()
		var patch journal.PreferencesPatch
		for flag, dst := range map[string]**string{
			"theme": &patch.Theme, "font-size": &patch.FontSize, "language": &patch.Language,
		} {
			if flags.Changed(flag) {
				v, _ := flags.GetString(flag)
				*dst = &v
			}
		}
		for flag, dst := range map[string]**bool{
			"email-notifications": &patch.EmailNotifications,
			"push-notifications":  &patch.PushNotifications,
			"weekly-digest":       &patch.WeeklyDigest,
		} {
			if flags.Changed(flag) {
				v, _ := flags.GetBool(flag)
				*dst = &v
			}
		}

		if flags.Changed("share-analytics") || flags.Changed("public-profile") || flags.Changed("lock-journal") {
			current, err := a.Services.Preferences.Get(ctx, u.ID)
			if err != nil {
				return fmt.Errorf("failed to load preferences: %w", err)
			}
			privacy := current.Privacy
			if flags.Changed("share-analytics") {
				privacy.ShareAnalytics, _ = flags.GetBool("share-analytics")
			}
			if flags.Changed("public-profile") {
				privacy.PublicProfile, _ = flags.GetBool("public-profile")
			}
			if flags.Changed("lock-journal") {
				privacy.LockJournal, _ = flags.GetBool("lock-journal")
			}
			patch.Privacy = &privacy
		}
		if patch == (journal.PreferencesPatch{}) {
			return fmt.Errorf("no preferences to change")
		}

		p, err := a.Services.Preferences.Update(ctx, u.ID, patch)
		if err != nil {
			return fmt.Errorf("failed to update preferences: %w", err)
		}
		return printJSON(cmd, p)
	},
}

var prefsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default preferences",
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

		p, err := a.Services.Preferences.Reset(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("failed to reset preferences: %w", err)
		}
		return printJSON(cmd, p)
	},
}

func initPrefsCmd() {
	addCredentialFlags(prefsCmd)

	f := prefsSetCmd.Flags()
	f.String("theme", "", "light, dark or system")
	f.String("font-size", "", "small, medium or large")
	f.String("language", "", "Interface language code")
	f.Bool("email-notifications", false, "Send reminder emails")
	f.Bool("push-notifications", false, "Send push notifications")
	f.Bool("weekly-digest", false, "Send a weekly summary")
	f.Bool("share-analytics", false, "Share anonymous usage analytics")
	f.Bool("public-profile", false, "Make the profile public")
	f.Bool("lock-journal", false, "Require unlocking before showing entries")

	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd, prefsResetCmd)
}
