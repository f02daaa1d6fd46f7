package db

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const (
	linkIDPrefix   = "bm-"
	folderIDPrefix = "fd-"
)

// NormalizeItemID ensures a bookmark ID has a prefix.
// Bare hex IDs like "abc123" become "bm-abc123"; folder IDs must be given in full.
func NormalizeItemID(id string) string {
	if id == "" {
		return id
	}
	if !strings.HasPrefix(id, linkIDPrefix) && !strings.HasPrefix(id, folderIDPrefix) {
		return linkIDPrefix + id
	}
	return id
}

// generateID generates a unique item ID with the given prefix
func generateID(prefix string) (string, error) {
	bytes := make([]byte, 3) // 6 hex characters
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return prefix + hex.EncodeToString(bytes), nil
}
