package cmd

import (
	"fmt"

	"github.com/marcus/startpage/internal/config"
	"github.com/marcus/startpage/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Manage board settings",
	GroupID: "system",
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}

		keys := config.Keys
		if len(args) == 1 {
			keys = args
		}
		for _, key := range keys {
			val, err := config.Get(cfg, key)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if len(args) == 1 {
				fmt.Println(val)
			} else {
				fmt.Printf("%s = %s\n", key, val)
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a config value.

Keys:
  pre_push        true|false  reorder tiles while dragging, not only on release
  push_animation  true|false  animate tiles sliding aside
  drop_animation  true|false  animate the dragged tile into its slot
  sort_locked     true|false  reject drags; clicks still open tiles
  visual_style    grid|dock
  tile_width      tile width in cells
  tile_height     tile height in lines`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(getBaseDir(), args[0], args[1]); err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}
