package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/marcus/startpage/internal/models"
)

const configFile = ".startpage/config.json"
const lockFile = ".startpage/config.json.lock"

// Keys lists the settings accepted by Get and Set, in display order
var Keys = []string{
	"pre_push",
	"push_animation",
	"drop_animation",
	"sort_locked",
	"visual_style",
	"tile_width",
	"tile_height",
}

// Load reads the config from disk. Missing keys keep their defaults.
func Load(baseDir string) (*models.Config, error) {
	cfg := models.DefaultConfig()
	configPath := filepath.Join(baseDir, configFile)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFile, err)
	}
	return &cfg, nil
}

// Save writes the config to disk using atomic write (temp file + rename)
func Save(baseDir string, cfg *models.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	configPath := filepath.Join(baseDir, configFile)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "config-*.json.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, configPath)
}

// withConfigLock serializes access to config.json using flock
func withConfigLock(baseDir string, fn func() error) error {
	lockPath := filepath.Join(baseDir, lockFile)

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return err
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// Update applies fn to the stored config under the config lock
func Update(baseDir string, fn func(cfg *models.Config) error) error {
	return withConfigLock(baseDir, func() error {
		cfg, err := Load(baseDir)
		if err != nil {
			return err
		}
		if err := fn(cfg); err != nil {
			return err
		}
		return Save(baseDir, cfg)
	})
}

// Get returns the string form of a single setting
func Get(cfg *models.Config, key string) (string, error) {
	switch key {
	case "pre_push":
		return strconv.FormatBool(cfg.PrePush), nil
	case "push_animation":
		return strconv.FormatBool(cfg.PushAnimation), nil
	case "drop_animation":
		return strconv.FormatBool(cfg.DropAnimation), nil
	case "sort_locked":
		return strconv.FormatBool(cfg.SortLocked), nil
	case "visual_style":
		if cfg.VisualStyle == "" {
			return models.StyleGrid, nil
		}
		return cfg.VisualStyle, nil
	case "tile_width":
		w, _ := cfg.TileSize()
		return strconv.Itoa(w), nil
	case "tile_height":
		_, h := cfg.TileSize()
		return strconv.Itoa(h), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set parses value and stores it under key
func Set(baseDir, key, value string) error {
	return Update(baseDir, func(cfg *models.Config) error {
		return apply(cfg, key, value)
	})
}

func apply(cfg *models.Config, key, value string) error {
	parseBool := func(dst *bool) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: want true or false, got %q", key, value)
		}
		*dst = b
		return nil
	}
	parseInt := func(dst *int) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: want a number, got %q", key, value)
		}
		*dst = n
		return nil
	}

	switch key {
	case "pre_push":
		return parseBool(&cfg.PrePush)
	case "push_animation":
		return parseBool(&cfg.PushAnimation)
	case "drop_animation":
		return parseBool(&cfg.DropAnimation)
	case "sort_locked":
		return parseBool(&cfg.SortLocked)
	case "visual_style":
		cfg.VisualStyle = value
		return cfg.Validate()
	case "tile_width":
		if err := parseInt(&cfg.TileWidth); err != nil {
			return err
		}
		return cfg.Validate()
	case "tile_height":
		if err := parseInt(&cfg.TileHeight); err != nil {
			return err
		}
		return cfg.Validate()
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}

// SetSortLocked toggles whether the board accepts drags
func SetSortLocked(baseDir string, locked bool) error {
	return Update(baseDir, func(cfg *models.Config) error {
		cfg.SortLocked = locked
		return nil
	})
}

// SetPrePush toggles live reordering during drags
func SetPrePush(baseDir string, on bool) error {
	return Update(baseDir, func(cfg *models.Config) error {
		cfg.PrePush = on
		return nil
	})
}
