package cmd

import (
	"fmt"

	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/output"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <id> <target-id>",
	Short: "Drop a bookmark onto another item",
	Long: `Does what releasing a held drag over a tile does on the board. A folder
target gains the bookmark at its end; a bookmark target becomes a new folder
holding the target and then the dropped bookmark.`,
	GroupID: "core",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		folderID, err := mergeItems(database, db.NormalizeItemID(args[0]), db.NormalizeItemID(args[1]))
		if err != nil {
			output.Error("%v", err)
			return err
		}
		output.Success("MERGED %s into %s", args[0], folderID)
		return nil
	},
}

// mergeItems drops id onto targetID and returns the folder that now holds it
func mergeItems(database *db.DB, id, targetID string) (string, error) {
	target, err := database.GetItem(targetID)
	if err != nil {
		return "", err
	}
	if target.IsFolder() {
		return target.ID, database.MergeIntoFolder(id, target.ID)
	}
	if target.ParentID != "" {
		return "", fmt.Errorf("%w: %s is inside %s", db.ErrNestedFolder, target.ID, target.ParentID)
	}
	folder, err := database.CreateFolder(target.ID, id, nil)
	if err != nil {
		return "", err
	}
	return folder.ID, nil
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
