package db

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/marcus/startpage/internal/models"
)

// DefaultFolderTitle names folders created by dropping one link onto another
const DefaultFolderTitle = "New Folder"

const itemColumns = `id, kind, title, url, parent_id, position, created_at, updated_at`

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*models.Item, error) {
	var item models.Item
	var kind string
	var url, parentID sql.NullString
	if err := s.Scan(&item.ID, &kind, &item.Title, &url, &parentID, &item.Position, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Kind = models.Kind(kind)
	item.URL = url.String
	item.ParentID = parentID.String
	return &item, nil
}

func getItem(q querier, id string) (*models.Item, error) {
	item, err := scanItem(q.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return item, nil
}

func listItems(q querier, parentID string) ([]models.Item, error) {
	rows, err := q.Query(`
		SELECT `+itemColumns+` FROM items
		WHERE parent_id = ?
		ORDER BY position ASC, created_at ASC, id ASC
	`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func childIDs(q querier, parentID string) ([]string, error) {
	items, err := listItems(q, parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids, nil
}

func nextPosition(q querier, parentID string) (int, error) {
	var pos sql.NullInt64
	if err := q.QueryRow(`SELECT MAX(position) FROM items WHERE parent_id = ?`, parentID).Scan(&pos); err != nil {
		return 0, err
	}
	if !pos.Valid {
		return 0, nil
	}
	return int(pos.Int64) + 1, nil
}

// writeOrder assigns positions 0..n-1 following ids
func writeOrder(q querier, parentID string, ids []string, now time.Time) error {
	for i, id := range ids {
		if _, err := q.Exec(`UPDATE items SET parent_id = ?, position = ?, updated_at = ? WHERE id = ?`, parentID, i, now, id); err != nil {
			return fmt.Errorf("position %s: %w", id, err)
		}
	}
	return nil
}

// reconcile returns order restricted to ids that exist in current, followed by
// any current ids order did not mention, in their current order.
func reconcile(order, current []string) []string {
	out := make([]string, 0, len(current))
	seen := make(map[string]bool, len(current))
	for _, id := range order {
		if slices.Contains(current, id) && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	for _, id := range current {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}

// CreateLink adds a bookmark at the end of the top level
func (db *DB) CreateLink(title, url string) (*models.Item, error) {
	return db.CreateLinkIn("", title, url)
}

// CreateLinkIn adds a bookmark at the end of folderID, or the top level when empty
func (db *DB) CreateLinkIn(folderID, title, url string) (*models.Item, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("url is required")
	}
	if strings.TrimSpace(title) == "" {
		title = url
	}

	var item *models.Item
	err := db.withTx(func(tx *sql.Tx) error {
		if folderID != "" {
			folder, err := getItem(tx, folderID)
			if err != nil {
				return err
			}
			if !folder.IsFolder() {
				return fmt.Errorf("%w: %s", ErrNotFolder, folderID)
			}
		}

		id, err := generateID(linkIDPrefix)
		if err != nil {
			return err
		}
		pos, err := nextPosition(tx, folderID)
		if err != nil {
			return err
		}

		now := time.Now()
		item = &models.Item{
			ID:        id,
			Kind:      models.KindLink,
			Title:     strings.TrimSpace(title),
			URL:       url,
			ParentID:  folderID,
			Position:  pos,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = tx.Exec(`
			INSERT INTO items (id, kind, title, url, parent_id, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, item.ID, item.Kind, item.Title, item.URL, item.ParentID, item.Position, item.CreatedAt, item.UpdatedAt)
		return err
	})
	return item, err
}

// GetItem retrieves an item by ID. Folders come back with their children.
func (db *DB) GetItem(id string) (*models.Item, error) {
	item, err := getItem(db.conn, id)
	if err != nil {
		return nil, err
	}
	if item.IsFolder() {
		if item.Children, err = listItems(db.conn, item.ID); err != nil {
			return nil, fmt.Errorf("list children: %w", err)
		}
	}
	return item, nil
}

// ListTopLevel returns the top-level items in display order
func (db *DB) ListTopLevel() ([]models.Item, error) {
	return listItems(db.conn, "")
}

// ListChildren returns the contents of a folder in display order
func (db *DB) ListChildren(folderID string) ([]models.Item, error) {
	folder, err := getItem(db.conn, folderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder() {
		return nil, fmt.Errorf("%w: %s", ErrNotFolder, folderID)
	}
	return listItems(db.conn, folderID)
}

// TopLevelOrder returns the ids of the top-level items in display order
func (db *DB) TopLevelOrder() ([]string, error) {
	return childIDs(db.conn, "")
}

// Reorder persists a new top-level display order. Unknown ids are rejected;
// top-level items missing from ids keep their relative order after the listed ones.
func (db *DB) Reorder(ids []string) error {
	return db.ReorderIn("", ids)
}

// ReorderIn is Reorder for the contents of parentID. The empty parent is the
// top level.
func (db *DB) ReorderIn(parentID string, ids []string) error {
	return db.withTx(func(tx *sql.Tx) error {
		if parentID != "" {
			parent, err := getItem(tx, parentID)
			if err != nil {
				return err
			}
			if !parent.IsFolder() {
				return fmt.Errorf("%w: %s", ErrNotFolder, parentID)
			}
		}
		current, err := childIDs(tx, parentID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !slices.Contains(current, id) {
				return fmt.Errorf("%w in %s: %s", ErrNotFound, scopeName(parentID), id)
			}
		}
		return writeOrder(tx, parentID, reconcile(ids, current), time.Now())
	})
}

func scopeName(parentID string) string {
	if parentID == "" {
		return "top level"
	}
	return parentID
}

// MergeIntoFolder moves a link into an existing folder, appending it to the
// folder's contents and closing the gap it leaves.
func (db *DB) MergeIntoFolder(draggedID, folderID string) error {
	if draggedID == folderID {
		return fmt.Errorf("cannot merge %s into itself", draggedID)
	}
	return db.withTx(func(tx *sql.Tx) error {
		dragged, err := getItem(tx, draggedID)
		if err != nil {
			return err
		}
		if dragged.IsFolder() {
			return fmt.Errorf("%w: %s is a folder", ErrNestedFolder, draggedID)
		}
		folder, err := getItem(tx, folderID)
		if err != nil {
			return err
		}
		if !folder.IsFolder() {
			return fmt.Errorf("%w: %s", ErrNotFolder, folderID)
		}

		now := time.Now()
		pos, err := nextPosition(tx, folderID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE items SET parent_id = ?, position = ?, updated_at = ? WHERE id = ?`,
			folderID, pos, now, draggedID); err != nil {
			return fmt.Errorf("move into folder: %w", err)
		}

		if dragged.ParentID != "" {
			return db.tidyFolder(tx, dragged.ParentID, now)
		}
		rest, err := childIDs(tx, "")
		if err != nil {
			return err
		}
		return writeOrder(tx, "", rest, now)
	})
}

// CreateFolder groups two top-level links into a new folder. The folder takes
// the target's slot in originalOrder once incomingID is removed from it, and
// holds the target followed by the incoming link. An empty originalOrder
// means the currently stored order.
func (db *DB) CreateFolder(targetID, incomingID string, originalOrder []string) (*models.Item, error) {
	if targetID == incomingID {
		return nil, fmt.Errorf("cannot group %s with itself", targetID)
	}

	var folder *models.Item
	err := db.withTx(func(tx *sql.Tx) error {
		target, err := getItem(tx, targetID)
		if err != nil {
			return err
		}
		incoming, err := getItem(tx, incomingID)
		if err != nil {
			return err
		}
		for _, it := range []*models.Item{target, incoming} {
			if it.IsFolder() {
				return fmt.Errorf("%w: %s is a folder", ErrNestedFolder, it.ID)
			}
			if it.ParentID != "" {
				return fmt.Errorf("%w at top level: %s", ErrNotFound, it.ID)
			}
		}

		current, err := childIDs(tx, "")
		if err != nil {
			return err
		}
		if len(originalOrder) == 0 {
			originalOrder = current
		}

		id, err := generateID(folderIDPrefix)
		if err != nil {
			return err
		}
		now := time.Now()
		folder = &models.Item{
			ID:        id,
			Kind:      models.KindFolder,
			Title:     DefaultFolderTitle,
			CreatedAt: now,
			UpdatedAt: now,
		}

		order := slices.DeleteFunc(slices.Clone(originalOrder), func(s string) bool { return s == incomingID })
		if i := slices.Index(order, targetID); i >= 0 {
			order[i] = folder.ID
		} else {
			order = append(order, folder.ID)
		}

		if _, err := tx.Exec(`
			INSERT INTO items (id, kind, title, url, parent_id, position, created_at, updated_at)
			VALUES (?, ?, ?, '', '', ?, ?, ?)
		`, folder.ID, folder.Kind, folder.Title, slices.Index(order, folder.ID), now, now); err != nil {
			return fmt.Errorf("insert folder: %w", err)
		}

		if err := writeOrder(tx, folder.ID, []string{targetID, incomingID}, now); err != nil {
			return err
		}

		rest := slices.DeleteFunc(current, func(s string) bool { return s == targetID || s == incomingID })
		rest = append(rest, folder.ID)
		final := reconcile(order, rest)
		if err := writeOrder(tx, "", final, now); err != nil {
			return err
		}
		folder.Position = slices.Index(final, folder.ID)
		folder.Children, err = listItems(tx, folder.ID)
		return err
	})
	return folder, err
}

// MoveOutOfFolder moves a link from its folder to the end of the top level.
// A folder left with no children is removed.
func (db *DB) MoveOutOfFolder(id string) error {
	return db.withTx(func(tx *sql.Tx) error {
		item, err := getItem(tx, id)
		if err != nil {
			return err
		}
		if item.ParentID == "" {
			return nil
		}
		pos, err := nextPosition(tx, "")
		if err != nil {
			return err
		}
		now := time.Now()
		if _, err := tx.Exec(`UPDATE items SET parent_id = '', position = ?, updated_at = ? WHERE id = ?`, pos, now, id); err != nil {
			return err
		}
		return db.tidyFolder(tx, item.ParentID, now)
	})
}

// tidyFolder renumbers a folder's children, deleting the folder when empty
func (db *DB) tidyFolder(tx *sql.Tx, folderID string, now time.Time) error {
	left, err := childIDs(tx, folderID)
	if err != nil {
		return err
	}
	if len(left) > 0 {
		return writeOrder(tx, folderID, left, now)
	}
	if _, err := tx.Exec(`DELETE FROM items WHERE id = ?`, folderID); err != nil {
		return err
	}
	top, err := childIDs(tx, "")
	if err != nil {
		return err
	}
	return writeOrder(tx, "", top, now)
}

// RenameItem changes an item's title
func (db *DB) RenameItem(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}
	return db.withWriteLock(func() error {
		res, err := db.conn.Exec(`UPDATE items SET title = ?, updated_at = ? WHERE id = ?`, title, time.Now(), id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil
	})
}

// DeleteItem removes an item; deleting a folder removes its contents too
func (db *DB) DeleteItem(id string) error {
	return db.withTx(func(tx *sql.Tx) error {
		item, err := getItem(tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM items WHERE id = ? OR parent_id = ?`, id, id); err != nil {
			return err
		}
		now := time.Now()
		if item.ParentID != "" {
			return db.tidyFolder(tx, item.ParentID, now)
		}
		rest, err := childIDs(tx, "")
		if err != nil {
			return err
		}
		return writeOrder(tx, "", rest, now)
	})
}
