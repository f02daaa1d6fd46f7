package cmd

import (
	"fmt"

	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/output"
	"github.com/marcus/startpage/pkg/board"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <url> [title]",
	Short: "Add a bookmark",
	Long: `Add a bookmark at the end of the top level, or of a folder with --folder.

Examples:
  startpage add go.dev                       # title defaults to the url
  startpage add https://go.dev/doc "Go docs"
  startpage add pkg.go.dev --folder fd-a1b2c3`,
	GroupID: "core",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := board.ValidateURL(args[0]); err != nil {
			output.Error("%v", err)
			return err
		}
		link := board.NormalizeURL(args[0])
		title := ""
		if len(args) > 1 {
			title = args[1]
		}
		folderID, _ := cmd.Flags().GetString("folder")

		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		item, err := database.CreateLinkIn(folderID, title, link)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		fmt.Printf("ADDED %s %s\n", item.ID, item.Label())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().String("folder", "", "Add inside this folder")
}
