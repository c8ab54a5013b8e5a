// Package source keeps the list of subscribed feed endpoints in a plain text
// file, one URL per line.
package source

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/scipunch/rsslist/config"
	"github.com/scipunch/rsslist/fetcher/types"
)

// ErrLineBreak is returned for a source containing a line break, which
// would otherwise be stored as several entries.
var ErrLineBreak = errors.New("source must not contain line breaks")

// Registry is the durable list of sources. Duplicates are kept as written.
type Registry struct {
	path string
}

// NewRegistry returns a registry backed by the file at path.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Default opens the registry in the per-application configuration directory.
func Default() (*Registry, error) {
	path, err := config.SourcesPath()
	if err != nil {
		return nil, &types.Error{Kind: types.NoConfigDir, Err: err}
	}
	return NewRegistry(path), nil
}

// Path returns the backing file location
func (r *Registry) Path() string {
	return r.path
}

// Add appends one source to the end of the list.
func (r *Registry) Add(source string) error {
	if strings.ContainsAny(source, "\r\n") {
		return ErrLineBreak
	}
	if err := r.ensure(); err != nil {
		return err
	}

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return ioError(fmt.Errorf("failed to open sources file at '%s' with %w", r.path, err))
	}
	if _, err := f.WriteString(source + "\n"); err != nil {
		f.Close()
		return ioError(fmt.Errorf("failed to append source with %w", err))
	}
	if err := f.Close(); err != nil {
		return ioError(err)
	}

	slog.Info("source added", "source", source)
	return nil
}

// ReplaceAll overwrites the whole list. The new content is written to a
// temporary file in the same directory and renamed over the old one.
func (r *Registry) ReplaceAll(sources []string) error {
	for _, s := range sources {
		if strings.ContainsAny(s, "\r\n") {
			return ErrLineBreak
		}
	}
	if err := r.ensure(); err != nil {
		return err
	}

	var b strings.Builder
	for _, s := range sources {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".sources-*.txt")
	if err != nil {
		return ioError(fmt.Errorf("failed to create temporary sources file with %w", err))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return ioError(fmt.Errorf("failed to write sources with %w", err))
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return ioError(err)
	}
	if err := tmp.Close(); err != nil {
		return ioError(err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return ioError(fmt.Errorf("failed to replace sources file at '%s' with %w", r.path, err))
	}

	slog.Info("sources replaced", "count", len(sources))
	return nil
}

// List returns the sources in file order, skipping blank lines.
func (r *Registry) List() ([]string, error) {
	if err := r.ensure(); err != nil {
		return nil, err
	}

	dat, err := os.ReadFile(r.path)
	if err != nil {
		return nil, ioError(fmt.Errorf("failed to read sources file at '%s' with %w", r.path, err))
	}

	return lo.Filter(strings.Split(string(dat), "\n"), func(line string, _ int) bool {
		return strings.TrimSpace(line) != ""
	}), nil
}

// ensure creates the containing directory and an empty file on first use.
func (r *Registry) ensure() error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return ioError(fmt.Errorf("failed to create sources directory at '%s' with %w", dir, err))
	}

	_, err := os.Stat(r.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(r.path, nil, 0644); err != nil {
			return ioError(fmt.Errorf("failed to create sources file at '%s' with %w", r.path, err))
		}
		return nil
	}
	if err != nil {
		return ioError(err)
	}
	return nil
}

func ioError(err error) error {
	return &types.Error{Kind: types.LocalIO, Err: err}
}
