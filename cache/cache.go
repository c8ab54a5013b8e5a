// Package cache keeps downloaded feed icons on disk, named after the feed
// title. It is best effort: every failure degrades to "no icon".
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Getter downloads a resource.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Icons stores icons in dir. Two feeds with the same title share a file and
// the last write wins.
type Icons struct {
	dir    string
	getter Getter
}

// NewIcons creates an icon cache rooted at dir. The directory is created
// lazily on the first successful download.
func NewIcons(dir string, getter Getter) *Icons {
	return &Icons{dir: dir, getter: getter}
}

// Store downloads iconURL and writes it under a name derived from title.
func (c *Icons) Store(ctx context.Context, title, iconURL string) (string, bool) {
	path, err := c.store(ctx, title, iconURL)
	if err != nil {
		slog.Debug("icon not cached", "title", title, "icon", iconURL, "error", err)
		return "", false
	}
	return path, true
}

func (c *Icons) store(ctx context.Context, title, iconURL string) (string, error) {
	dat, err := c.getter.Get(ctx, iconURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create icon directory at '%s' with %w", c.dir, err)
	}

	path := c.Path(title)
	if err := os.WriteFile(path, dat, 0644); err != nil {
		return "", fmt.Errorf("failed to write icon at '%s' with %w", path, err)
	}
	return path, nil
}

// Path returns where the icon for a feed titled title is kept.
func (c *Icons) Path(title string) string {
	return filepath.Join(c.dir, FileName(title))
}

// FileName is the hex encoded SHA-256 of the title.
func FileName(title string) string {
	hash := sha256.Sum256([]byte(title))
	return hex.EncodeToString(hash[:])
}
