package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/marcus/startpage/internal/config"
	"github.com/marcus/startpage/internal/db"
	"github.com/marcus/startpage/internal/output"
	"github.com/marcus/startpage/pkg/board"
	"github.com/marcus/startpage/pkg/grid"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace.json>",
	Short: "Run a recorded pointer trace through the drag engine",
	Long: `Replay a recorded pointer trace against the stored grid without a terminal
and print what it did. Nothing is written unless --apply is given.

A trace is JSON:

  {"width": 80, "folder": "", "events": [
    {"type": "press",   "x": 9,  "y": 4, "t_ms": 0},
    {"type": "move",    "x": 38, "y": 4, "t_ms": 200},
    {"type": "release", "x": 38, "y": 4, "t_ms": 232}
  ]}

Positions are terminal cells of the board. Event types are press, move,
release, frame and cancel (with "reason": pointer, blur, hidden or host).`,
	GroupID: "board",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		data, err := os.ReadFile(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}
		tr, err := board.ParseTrace(data)
		if err != nil {
			output.Error("%v", err)
			return err
		}

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

		apply, _ := cmd.Flags().GetBool("apply")
		width, _ := cmd.Flags().GetInt("width")
		res, err := board.Replay(cmd.Context(), database, tr, board.ReplayOptions{
			Settings: *cfg,
			Width:    width,
			Apply:    apply,
			Logger:   slog.Default(),
		})
		if err != nil {
			output.Error("replay: %v", err)
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return output.JSON(replaySummary(res, apply))
		}
		printReplay(res, apply)
		return nil
	},
}

type replayReport struct {
	Before  []string `json:"before"`
	After   []string `json:"after"`
	Results []string `json:"results"`
	Cancels []string `json:"cancels,omitempty"`
	Tasks   []string `json:"tasks"`
	Misses  int      `json:"misses"`
	Applied bool     `json:"applied"`
}

func replaySummary(res *board.ReplayResult, applied bool) replayReport {
	r := replayReport{
		Before:  res.Before,
		After:   res.After,
		Results: make([]string, 0, len(res.Results)),
		Tasks:   res.Tasks,
		Misses:  res.Misses,
		Applied: applied,
	}
	for _, g := range res.Results {
		r.Results = append(r.Results, describeResult(g))
	}
	for _, c := range res.Cancels {
		r.Cancels = append(r.Cancels, c.String())
	}
	return r
}

func describeResult(r grid.Result) string {
	if r.TargetID != "" {
		return fmt.Sprintf("%s %s onto %s", r.Outcome, r.ActiveID, r.TargetID)
	}
	return fmt.Sprintf("%s %s", r.Outcome, r.ActiveID)
}

func printReplay(res *board.ReplayResult, applied bool) {
	fmt.Printf("Before: %s\n", output.OrderLine(res.Before))
	fmt.Printf("After:  %s\n", output.OrderLine(res.After))
	for _, r := range res.Results {
		fmt.Printf("  %s\n", describeResult(r))
	}
	for _, c := range res.Cancels {
		fmt.Printf("  cancelled (%s)\n", c)
	}
	if res.Misses > 0 {
		output.Warning("%d press(es) hit no tile", res.Misses)
	}
	switch {
	case len(res.Tasks) == 0:
		fmt.Println("No changes to store")
	case applied:
		output.Success("APPLIED %d task(s)", len(res.Tasks))
	default:
		fmt.Printf("Would run: %v (use --apply to write)\n", res.Tasks)
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("apply", false, "Write the resulting changes to the store")
	replayCmd.Flags().Int("width", 0, "Terminal width to lay the grid out for (default: trace width, else 80)")
	replayCmd.Flags().Bool("json", false, "Output as JSON")
}
