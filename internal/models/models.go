package models

import (
	"fmt"
	"time"
)

// Kind represents the type of a grid entry
type Kind string

const (
	KindLink   Kind = "link"
	KindFolder Kind = "folder"
)

// IsValidKind checks if a kind is valid
func IsValidKind(k Kind) bool {
	return k == KindLink || k == KindFolder
}

// Item is a bookmark or a folder of bookmarks.
// Top-level items have an empty ParentID. Position orders siblings.
type Item struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	URL       string    `json:"url,omitempty"`
	ParentID  string    `json:"parent_id,omitempty"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Children is only populated by queries that load folder contents.
	Children []Item `json:"children,omitempty"`
}

// IsFolder reports whether the item is a folder
func (i Item) IsFolder() bool {
	return i.Kind == KindFolder
}

// Label returns the text shown on a tile
func (i Item) Label() string {
	if i.Title != "" {
		return i.Title
	}
	if i.URL != "" {
		return i.URL
	}
	return i.ID
}

// Visual styles for the board
const (
	StyleGrid = "grid"
	StyleDock = "dock"
)

// Config represents the local settings file
type Config struct {
	PrePush       bool   `json:"pre_push"`
	PushAnimation bool   `json:"push_animation"`
	DropAnimation bool   `json:"drop_animation"`
	SortLocked    bool   `json:"sort_locked"`
	VisualStyle   string `json:"visual_style,omitempty"`
	TileWidth     int    `json:"tile_width,omitempty"`
	TileHeight    int    `json:"tile_height,omitempty"`
}

// Tile size bounds in terminal cells
const (
	DefaultTileWidth  = 18
	DefaultTileHeight = 5
	MinTileWidth      = 8
	MinTileHeight     = 3
)

// DefaultConfig returns settings with pre-push and both animations on
func DefaultConfig() Config {
	return Config{
		PrePush:       true,
		PushAnimation: true,
		DropAnimation: true,
		VisualStyle:   StyleGrid,
		TileWidth:     DefaultTileWidth,
		TileHeight:    DefaultTileHeight,
	}
}

// Validate checks the config values
func (c Config) Validate() error {
	switch c.VisualStyle {
	case "", StyleGrid, StyleDock:
	default:
		return fmt.Errorf("invalid visual_style %q (want %s or %s)", c.VisualStyle, StyleGrid, StyleDock)
	}
	if c.TileWidth != 0 && c.TileWidth < MinTileWidth {
		return fmt.Errorf("tile_width must be at least %d", MinTileWidth)
	}
	if c.TileHeight != 0 && c.TileHeight < MinTileHeight {
		return fmt.Errorf("tile_height must be at least %d", MinTileHeight)
	}
	return nil
}

// TileSize returns the configured tile size with defaults applied
func (c Config) TileSize() (w, h int) {
	w, h = c.TileWidth, c.TileHeight
	if w == 0 {
		w = DefaultTileWidth
	}
	if h == 0 {
		h = DefaultTileHeight
	}
	return w, h
}
