package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/eunoia/pkg/app"
	"github.com/unowned-ai/eunoia/pkg/journal"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in and manage accounts",
	Long:  `Provides commands for logging in, registering, completing MFA challenges and SSO sign-in.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Logs in and prints the session. Accounts with MFA enabled return a challenge
ID instead of a token, and the one-time code is written to the log.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.Services.Auth.Login(cmdContext(cmd), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		return printJSON(cmd, sess)
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in journal.RegisterInput
		in.Email, _ = cmd.Flags().GetString("email")
		in.Password, _ = cmd.Flags().GetString("password")
		in.DisplayName, _ = cmd.Flags().GetString("name")
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.Services.Auth.Register(cmdContext(cmd), in)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		return printJSON(cmd, sess)
	},
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify [challenge-id] [code]",
	Short: "Complete an MFA challenge",
	Long: `Completes an MFA challenge. Challenges live in process memory, so a challenge
issued by one CLI run cannot be completed by another. Against a running server
use POST /api/auth/mfa instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.Services.Auth.VerifyMFA(cmdContext(cmd), args[0], args[1])
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		return printJSON(cmd, sess)
	},
}

var authSSOCmd = &cobra.Command{
	Use:   "sso [provider]",
	Short: "Sign in through an identity provider (google, apple, github)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		sess, err := a.Services.Auth.SSOLogin(cmdContext(cmd), args[0], email)
		if err != nil {
			return fmt.Errorf("sign-in failed: %w", err)
		}
		return printJSON(cmd, sess)
	},
}

// currentUser resolves the account for per-user commands from --token or
// --email/--password.
func currentUser(ctx context.Context, cmd *cobra.Command, a *app.App) (journal.User, error) {
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		return a.Services.Auth.Authenticate(ctx, token)
	}
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if email == "" {
		return journal.User{}, fmt.Errorf("provide --token or --email and --password")
	}
	sess, err := a.Services.Auth.Login(ctx, email, password)
	if err != nil {
		return journal.User{}, fmt.Errorf("login failed: %w", err)
	}
	if sess.MFARequired {
		return journal.User{}, fmt.Errorf("account requires MFA; sign in through the server and pass --token")
	}
	return sess.User, nil
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("token", "", "Session token (valid across runs only when EUNOIA_JWT_SECRET is set)")
	cmd.PersistentFlags().StringP("email", "e", "", "Account email")
	cmd.PersistentFlags().StringP("password", "p", "", "Account password")
}

func initAuthCmd() {
	authLoginCmd.Flags().StringP("email", "e", "", "Account email")
	authLoginCmd.Flags().StringP("password", "p", "", "Account password")
	authRegisterCmd.Flags().StringP("email", "e", "", "Account email")
	authRegisterCmd.Flags().StringP("password", "p", "", "Password (at least 8 characters)")
	authRegisterCmd.Flags().String("name", "", "Display name (defaults to the email's local part)")
	authSSOCmd.Flags().StringP("email", "e", "", "Email asserted by the provider")

	authCmd.AddCommand(authLoginCmd, authRegisterCmd, authVerifyCmd, authSSOCmd)
}
