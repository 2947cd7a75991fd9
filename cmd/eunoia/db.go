package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	pkgdb "github.com/unowned-ai/eunoia/pkg/db"
	"github.com/unowned-ai/eunoia/pkg/seed"
	"github.com/unowned-ai/eunoia/pkg/utils"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the Eunoia database",
	Long:  `Provides commands for managing the Eunoia SQLite database: schema upgrades and demo data.`,
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the database schema to the latest version",
	Long: `Connects to the SQLite database at the configured path and applies any pending
schema migrations. A missing database is created and initialized.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		walEnabled, _ := cmd.Flags().GetBool("wal")
		syncMode, _ := cmd.Flags().GetString("sync")

		path, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Upgrading journal database at: %s (WAL: %t, Sync: %s)\n", path, walEnabled, syncMode)

		conn, err := pkgdb.OpenDBConnection(path, walEnabled, syncMode)
		if err != nil {
			return err
		}
		defer conn.Close()
		return pkgdb.UpgradeDB(conn, path, pkgdb.TargetSchemaVersion)
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset into an empty database",
	Long: `Loads the embedded demo dataset, or the YAML file given with --file, into the
configured store. Stores that already hold entries are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cmd.Flags().Set("no-seed", "true"); err != nil {
			return err
		}
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			file = a.Config.SeedFile
		}
		ds, err := seed.FromFile(file)
		if err != nil {
			return err
		}
		sum, err := seed.Load(cmdContext(cmd), a.Store, ds, a.Services.Auth.HashPassword, time.Now().UTC())
		if err != nil {
			return err
		}
		if sum.Skipped {
			fmt.Fprintln(cmd.OutOrStdout(), "Store already has entries; nothing loaded.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d users, %d tags, %d entries and %d reminders.\n",
			sum.Users, sum.Tags, sum.Entries, sum.Reminders)
		return nil
	},
}

func initDBCmd() {
	dbUpgradeCmd.Flags().Bool("wal", true, "Enable SQLite WAL (Write-Ahead Logging) mode.")
	dbUpgradeCmd.Flags().String("sync", "NORMAL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA).")
	dbSeedCmd.Flags().String("file", "", "YAML seed file (defaults to the embedded demo dataset)")
	dbCmd.AddCommand(dbUpgradeCmd, dbSeedCmd)
}
