package cmd

import (
	"fmt"
	"strconv"

	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/models"
	"github.com/marcus/startpage/internal/output"
	"github.com/marcus/startpage/pkg/grid"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id> <index>",
	Short: "Move an item to a position within its list",
	Long: `Move an item to a zero-based position among its siblings. Indexes past the
end place it last.

Examples:
  startpage move bm-a1b2c3 0     # first on the page
  startpage move bm-d4e5f6 99    # last in its folder`,
	GroupID: "core",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil || index < 0 {
			err = fmt.Errorf("index must be a non-negative number, got %q", args[1])
			output.Error("%v", err)
			return err
		}

		database, err := db.Open(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		order, err := moveItem(database, db.NormalizeItemID(args[0]), index)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Println(output.OrderLine(order))
		return nil
	},
}

// moveItem reorders id's list and returns the new order
func moveItem(database *db.DB, id string, index int) ([]string, error) {
	item, err := database.GetItem(id)
	if err != nil {
		return nil, err
	}

	var siblings []models.Item
	if item.ParentID == "" {
		siblings, err = database.ListTopLevel()
	} else {
		siblings, err = database.ListChildren(item.ParentID)
	}
	if err != nil {
		return nil, err
	}

	order := make([]string, len(siblings))
	for i, s := range siblings {
		order[i] = s.ID
	}
	order = grid.MoveTo(order, id, index)
	if err := database.ReorderIn(item.ParentID, order); err != nil {
		return nil, err
	}
	return order, nil
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
