package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	eunoia "github.com/unowned-ai/eunoia/pkg"
	"github.com/unowned-ai/eunoia/pkg/app"
	"github.com/unowned-ai/eunoia/pkg/config"
	"github.com/unowned-ai/eunoia/pkg/logging"
)

var (
	envFile     string
	storage     string
	dbPath      string
	logLevel    string
	noLatency   bool
	successRate float64
	noSeed      bool
)

var rootCmd = &cobra.Command{
	Use:     "eunoia",
	Short:   "Journaling backend with simulated latency, sentiment analysis and reminders.",
	Long:    ``,
	Version: fmt.Sprintf("v%s", eunoia.Version),
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for eunoia.

The command prints a completion script to stdout. You can source it in your shell
or install it to the appropriate location for your shell to enable completions permanently.

Examples:

  Bash (current shell):
    $ source <(eunoia completion bash)

  Zsh:
    $ eunoia completion zsh > "${fpath[1]}/_eunoia"

  Fish:
    $ eunoia completion fish > ~/.config/fish/completions/eunoia.fish

  PowerShell:
    PS> eunoia completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of eunoia",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), eunoia.Version)
	},
}

// loadConfig reads the environment and .env file, then applies any
// persistent flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage = strings.ToLower(storage)
	}
	if flags.Changed("dbpath") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("no-latency") {
		cfg.Latency = !noLatency
	}
	if flags.Changed("success-rate") {
		cfg.SuccessRate = successRate
	}
	if flags.Changed("no-seed") {
		cfg.Seed = !noSeed
	}
	return cfg, cfg.Validate()
}

// openApp loads configuration, builds the logger and wires the application.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	logrus.SetLevel(log.GetLevel())
	logrus.SetFormatter(log.Formatter)
	return app.New(cmdContext(cmd), cfg, log)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func initCmd() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "Path to a .env file with EUNOIA_* settings (skipped when missing)")
	pf.StringVar(&storage, "storage", config.StorageSQLite, "Storage backend: sqlite or memory")
	pf.StringVar(&dbPath, "dbpath", "", "Path to the Eunoia SQLite database file (defaults to the user data directory)")
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.BoolVar(&noLatency, "no-latency", false, "Disable simulated latency")
	pf.Float64Var(&successRate, "success-rate", 0.95, "Probability that a simulated request succeeds")
	pf.BoolVar(&noSeed, "no-seed", false, "Do not load the demo dataset into an empty store")

	initDBCmd()
	initEntriesCmd()
	initTagsCmd()
	initAICmd()
	initAuthCmd()
	initRemindersCmd()
	initPrefsCmd()
	initServeCmd()
	initInvokeCmd()

	rootCmd.AddCommand(versionCmd, completionCmd, dbCmd, entriesCmd, tagsCmd, analyzeCmd, promptsCmd, suggestCmd,
		authCmd, remindersCmd, prefsCmd, invokeCmd, serveCmd, mcpCmd, tuiCmd)
}

func main() {
	initCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
