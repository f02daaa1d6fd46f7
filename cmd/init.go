package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcus/startpage/internal/config"
	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize a start page in the current directory",
	Long:    `Creates the local .startpage directory, its SQLite database and a default config.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		if _, err := os.Stat(filepath.Join(baseDir, db.Dir)); err == nil {
			output.Warning("%s/ already exists", db.Dir)
			return nil
		}

		database, err := db.Initialize(baseDir)
		if err != nil {
			output.Error("failed to initialize database: %v", err)
			return err
		}
		defer database.Close()

		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if err := config.Save(baseDir, cfg); err != nil {
			output.Error("failed to write config: %v", err)
			return err
		}

		fmt.Printf("INITIALIZED %s/\n", db.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
