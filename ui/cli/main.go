// Copyright (c) 2025 retroterm
// GoBBS - text-mode bulletin board system
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for GoBBS using the Cobra
// library. Running the bare command launches the interactive shell;
// subcommands cover operational tasks (notify, backup, restore,
// maintenance).
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/retroterm/gobbs/buildvars"
	"github.com/retroterm/gobbs/internal/bbs"
	"github.com/retroterm/gobbs/internal/config"
	"github.com/retroterm/gobbs/internal/db"
	"github.com/retroterm/gobbs/internal/i18n"
	"github.com/retroterm/gobbs/internal/logging"
	"github.com/retroterm/gobbs/internal/model"
)

// version resolves to the linker-injected build version, or "dev" for local
// builds.
var version = buildvars.VersionOrDefault("dev")

var (
	cfgFile   string
	notifyTo  string // notify --to flag: single recipient name
	appConfig config.Config
)

// setupDefaultServices loads the configuration, initializes i18n and opens
// the database. It runs before every command.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	explicitPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	defaults := map[string]any{
		"database.type": "sqlite",
		"database.dsn":  "./gobbs.db",
		"language":      "en",
		"timezone":      "UTC",
	}

	appConfig, err = config.LoadConfig(cmd, defaults, explicitPath)
	// A "file not found" error is expected on first run; other load errors
	// are fatal.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			// The app runs fine on defaults; just warn.
			logging.Warnf("could not write default config file: %v", writeErr)
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	// Backstop empty values from a hand-edited config file.
	if appConfig.Database.Type == "" {
		appConfig.Database.Type = defaults["database.type"].(string)
	}
	if appConfig.Database.Dsn == "" {
		appConfig.Database.Dsn = defaults["database.dsn"].(string)
	}
	if appConfig.Language == "" {
		appConfig.Language = defaults["language"].(string)
	}
	if appConfig.Timezone == "" {
		appConfig.Timezone = defaults["timezone"].(string)
	}

	i18n.Init(appConfig.Language)
	logging.SetDebug(appConfig.Debug)
	db.SetDebug(appConfig.Debug)

	// Tests and alternative bootstraps may have initialized the store already.
	if !db.IsInitialized() {
		if err := db.InitDB(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return errors.New(i18n.T("config.error_init_db", err))
		}
	}

	return nil
}

// Execute runs the CLI entrypoint. The root main package calls this and
// handles process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only honor --config when the user explicitly set it.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command. Tests use
// this to get fresh, isolated instances.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gobbs",
		Short: "GoBBS is a text-mode bulletin board system.",
		Long: `GoBBS is a teletype-style bulletin board: register, log in, post to
named sub-boards, read them newest-first and exchange private mail.
Mentioning another user with @name in a post delivers them a private
notification from the reserved SYSTEM identity.

Running without a subcommand launches the interactive shell.`,
		Version:           version,
		PersistentPreRunE: setupDefaultServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := newShell(appConfig)
			return sh.run()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	cmd.PersistentFlags().String("database.type", "sqlite", "Database type (e.g., sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("database.dsn", "./gobbs.db", "Database connection string (DSN)")

	// Subcommands are package-level; only register their flags once even when
	// tests build several root commands.
	if notifyCmd.Flags().Lookup("to") == nil {
		notifyCmd.Flags().StringVar(&notifyTo, "to", "", "deliver to a single user instead of everyone")
	}
	cmd.AddCommand(notifyCmd, backupCmd, restoreCmd, maintenanceCmd)

	return cmd
}

// notifyCmd sends a SYSTEM-authored message to every user's mailbox, or to
// one user with --to. SYSTEM itself never receives broadcasts.
var notifyCmd = &cobra.Command{
	Use:   "notify <message>",
	Short: "Deliver a system notification to user mailboxes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")

		if notifyTo != "" {
			ident, err := bbs.LookupByName(notifyTo)
			if err != nil {
				return err
			}
			if ident == nil || ident.IsSystem() {
				return errors.New(i18n.T("notify.error_unknown_user", notifyTo))
			}
			if _, err := bbs.Broadcast(message, &ident.ID); err != nil {
				return err
			}
			fmt.Println(i18n.T("notify.sent"))
			return nil
		}

		count, err := bbs.Broadcast(message, nil)
		if err != nil {
			return err
		}
		fmt.Println(i18n.T("notify.sent_count", count))
		return nil
	},
}

// backupCmd dumps the entire database into a Zstandard-compressed JSON
// file, usable for disaster recovery or for moving between backends.
var backupCmd = &cobra.Command{
	Use:   "backup [output-file]",
	Short: "Create a compressed (zstd) JSON backup of the database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := fmt.Sprintf("gobbs-backup-%s.json.zst", time.Now().Format("2006-01-02"))
		if len(args) > 0 {
			filename = args[0]
			if !strings.HasSuffix(filename, ".zst") {
				filename += ".zst"
			}
		}

		data, err := db.ExportDataForBackup()
		if err != nil {
			return errors.New(i18n.T("backup.error", err))
		}
		if err := writeCompressedBackup(filename, data); err != nil {
			return errors.New(i18n.T("backup.error", err))
		}
		fmt.Println(i18n.T("backup.success", filename))
		return nil
	},
}

// restoreCmd replaces the database contents with a backup snapshot.
var restoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Restore the database from a zstd backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readCompressedBackup(args[0])
		if err != nil {
			return errors.New(i18n.T("restore.error", err))
		}
		if err := db.ImportDataFromBackup(data); err != nil {
			return errors.New(i18n.T("restore.error", err))
		}
		fmt.Println(i18n.T("restore.success"))
		return nil
	},
}

// maintenanceCmd runs engine-specific housekeeping (VACUUM, optimize).
var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run database maintenance for the configured backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(i18n.T("maintenance.running"))
		if err := db.RunDBMaintenance(appConfig.Database.Type, appConfig.Database.Dsn); err != nil {
			return err
		}
		fmt.Println(i18n.T("maintenance.success"))
		return nil
	},
}

// writeCompressedBackup encodes the backup as pretty JSON inside a zstd
// stream.
func writeCompressedBackup(filename string, data *model.BackupData) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create backup file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdWriter, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("could not create zstd writer: %w", err)
	}
	defer func() { _ = zstdWriter.Close() }()

	encoder := json.NewEncoder(zstdWriter)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("could not encode json to zstd writer: %w", err)
	}
	return nil
}

// readCompressedBackup reads a zstd-compressed JSON backup file.
func readCompressedBackup(filename string) (*model.BackupData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open backup file: %w", err)
	}
	defer func() { _ = file.Close() }()

	zstdReader, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zstdReader.Close()

	var backupData model.BackupData
	if err := json.NewDecoder(zstdReader).Decode(&backupData); err != nil {
		return nil, fmt.Errorf("could not decode json from zstd reader: %w", err)
	}
	return &backupData, nil
}
