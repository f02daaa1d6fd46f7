package cmd

import (
	"fmt"

	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List bookmarks and folders in display order",
	GroupID: "core",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		items, err := listWithChildren(database)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(items)
		}

		if len(items) == 0 {
			fmt.Println("No bookmarks yet. Try: startpage add <url>")
			return nil
		}
		for i := range items {
			fmt.Println(output.FormatItemShort(i, &items[i]))
		}
		return nil
	},
}

// listWithChildren returns the top level with folder contents loaded
func listWithChildren(database *db.DB) ([]models.Item, error) {
	items, err := database.ListTopLevel()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if !items[i].IsFolder() {
			continue
		}
		if items[i].Children, err = database.ListChildren(items[i].ID); err != nil {
			return nil, fmt.Errorf("list %s: %w", items[i].ID, err)
		}
	}
	return items, nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
