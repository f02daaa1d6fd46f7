package board

import (
	"context"

	"github.com/marcus/startpage/internal/models"
)

// Store is the persistence the board needs. *db.DB satisfies it.
type Store interface {
	ListTopLevel() ([]models.Item, error)
	ListChildren(folderID string) ([]models.Item, error)
	ReorderIn(parentID string, ids []string) error
	MergeIntoFolder(draggedID, folderID string) error
	CreateFolder(targetID, incomingID string, originalOrder []string) (*models.Item, error)
	CreateLinkIn(folderID, title, url string) (*models.Item, error)
	MoveOutOfFolder(id string) error
}

// Host binds a Layout to a Store for one list: the top level, or the
// contents of ParentID. It implements grid.Host.
type Host struct {
	*Layout
	Store    Store
	ParentID string
}

// NewHost creates a host for the list identified by parentID
func NewHost(layout *Layout, store Store, parentID string) *Host {
	return &Host{Layout: layout, Store: store, ParentID: parentID}
}

// MergeIntoFolder implements grid.Host
func (h *Host) MergeIntoFolder(ctx context.Context, draggedID, folderID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.Store.MergeIntoFolder(draggedID, folderID)
}

// CreateFolder implements grid.Host
func (h *Host) CreateFolder(ctx context.Context, targetID, incomingID string, originalOrder []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := h.Store.CreateFolder(targetID, incomingID, originalOrder)
	return err
}

// PersistReorder implements grid.Host
func (h *Host) PersistReorder(ctx context.Context, order []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.Store.ReorderIn(h.ParentID, order)
}
