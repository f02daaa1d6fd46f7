package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/startpage/internal/config"
	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/output"
	"github.com/marcus/startpage/pkg/board"
	"github.com/spf13/cobra"
)

const boardLogFile = "board.log"

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the bookmark grid",
	Long: `Open the bookmark grid in the terminal.

Drag a tile with the mouse to reorder. Hold it over the middle of another
tile to make a folder, or over a folder to drop it in. Press ? for help.

While the board runs, logs go to .startpage/board.log.`,
	GroupID: "board",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		logPath := filepath.Join(baseDir, db.Dir, boardLogFile)
		logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			output.Error("open log: %v", err)
			return err
		}
		defer logFile.Close()

		level, _ := cmd.Flags().GetString("log-level")
		if level == "" {
			level = os.Getenv("STARTPAGE_LOG_LEVEL")
		}
		logger := newLogger(logFile, level, os.Getenv("STARTPAGE_LOG_FORMAT"))
		prev := slog.Default()
		slog.SetDefault(logger)
		defer slog.SetDefault(prev)

		model := board.New(board.Config{
			Store:    database,
			BaseDir:  baseDir,
			Settings: *cfg,
			Logger:   logger,
		})

		p := tea.NewProgram(model,
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithReportFocus(),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running board: %w", err)
		}
		return nil
	},
}

var guideCmd = &cobra.Command{
	Use:     "guide",
	Short:   "Show the board guide",
	GroupID: "board",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := output.RenderMarkdown(board.Guide)
		if err != nil {
			fmt.Print(board.Guide)
			return nil
		}
		fmt.Print(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(guideCmd)
}
