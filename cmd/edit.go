package cmd

import (
	"fmt"

	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/output"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:     "rename <id> <title>",
	Short:   "Change the title of a bookmark or folder",
	GroupID: "core",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		id := db.NormalizeItemID(args[0])
		if err := database.RenameItem(id, args[1]); err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Printf("RENAMED %s\n", id)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a bookmark, or a folder with everything in it",
	GroupID: "core",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		id := db.NormalizeItemID(args[0])
		if err := database.DeleteItem(id); err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Printf("DELETED %s\n", id)
		return nil
	},
}

var unfileCmd = &cobra.Command{
	Use:   "unfile <id>",
	Short: "Move a bookmark out of its folder to the end of the page",
	Long: `Move a bookmark out of its folder to the end of the top level. A folder
left empty is removed.`,
	GroupID: "core",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		id := db.NormalizeItemID(args[0])
		if err := database.MoveOutOfFolder(id); err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Printf("UNFILED %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(unfileCmd)
}
