package board

// Guide is the user guide shown by `startpage guide` and the board's help
const Guide = `# startpage

A grid of bookmarks you rearrange with the mouse.

## Dragging

- **Press and drag** a tile to move it. Moves shorter than half a cell are
  treated as a click.
- While you drag, the other tiles make room live (turn this off with **p**
  to only reorder when you let go).
- Drop a tile onto a **folder** to put it inside.
- Hold a tile over the **middle of another bookmark** for about a third of a
  second until it is highlighted, then let go to make a new folder from both.
- Folders can be moved but never dropped into other folders.
- **esc** or leaving the window cancels a drag and puts everything back.

## Keys

| Key | Action |
|-----|--------|
| ←/h →  ↑/k ↓/j | Move the selection |
| enter | Open a folder, or copy a bookmark's URL |
| y | Copy the selected bookmark's URL |
| a | Add a bookmark |
| x | Move the selected bookmark out of the open folder |
| l | Lock or unlock the order |
| p | Toggle live reordering (pre-push) |
| esc | Cancel a drag, or leave a folder |
| ? | Toggle this help |
| q | Quit |

## Settings

Settings live in ` + "`.startpage/config.json`" + ` and can be changed with
` + "`startpage config set <key> <value>`" + `:

- ` + "`pre_push`" + `, ` + "`push_animation`" + `, ` + "`drop_animation`" + `, ` + "`sort_locked`" + ` (true/false)
- ` + "`visual_style`" + ` (grid or dock)
- ` + "`tile_width`" + `, ` + "`tile_height`" + ` (cells)

## Replaying drags

` + "`startpage replay trace.json`" + ` feeds a recorded pointer trace through the
drag engine against the current layout and prints what it would do. Events
are ` + "`press`" + `, ` + "`move`" + `, ` + "`release`" + `, ` + "`frame`" + ` and ` + "`cancel`" + `, each with a time
` + "`t_ms`" + ` and, for pointer events, a position ` + "`x`" + `, ` + "`y`" + ` in terminal cells.
Add ` + "`--apply`" + ` to write the result to the store.
`
