package db

import "errors"

var (
	// ErrNotFound is returned when an item id does not exist
	ErrNotFound = errors.New("item not found")
	// ErrNotFolder is returned when a folder operation targets a link
	ErrNotFolder = errors.New("not a folder")
	// ErrNestedFolder is returned when an operation would put a folder inside a folder
	ErrNestedFolder = errors.New("folders cannot be nested")
	// ErrNotInitialized is returned by Open when the database file is missing
	ErrNotInitialized = errors.New("database not found: run 'startpage init' first")
)
