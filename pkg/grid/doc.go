// Package grid implements the spatial drag-reorder and combine-into-folder
// engine behind the bookmark grid.
//
// The engine is headless. A host feeds it pointer events and frame ticks and
// exposes the live layout through the Host interface; the engine answers with
// order mutations, folder merges and per-tile visual overrides. Geometry is in
// abstract units (CSS pixels in a browser, scaled cells in a terminal).
//
// Per-move computation is coalesced: Move only records the pointer, and the
// next Frame runs a single pass of snapshot -> rows -> combine or insert.
package grid
