package source

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/scipunch/rsslist/config"
	"github.com/scipunch/rsslist/fetcher/types"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(filepath.Join(t.TempDir(), "rss-list", "sources.txt"))
}

func TestList_CreatesEmptyStore(t *testing.T) {
	reg := newTestRegistry(t)

	sources, err := reg.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("Expected no sources, got %v", sources)
	}
	if _, err := os.Stat(reg.Path()); err != nil {
		t.Errorf("Sources file was not created: %v", err)
	}
}

func TestAdd_AppendsLast(t *testing.T) {
	reg := newTestRegistry(t)

	for _, s := range []string{"https://a.example/feed", "https://b.example/feed"} {
		if err := reg.Add(s); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	sources, err := reg.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if got := sources[len(sources)-1]; got != "https://b.example/feed" {
		t.Errorf("Last source = %q, want the last added", got)
	}

	dat, _ := os.ReadFile(reg.Path())
	if string(dat) != "https://a.example/feed\nhttps://b.example/feed\n" {
		t.Errorf("Unexpected file content %q", dat)
	}
}

func TestAdd_RejectsLineBreaks(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.Add("https://a.example/feed"); err != nil {
		t.Fatal(err)
	}

	for _, s := range []string{"https://x\nhttps://y", "https://x\r", "\nhttps://z"} {
		if err := reg.Add(s); !errors.Is(err, ErrLineBreak) {
			t.Errorf("Add(%q) = %v, want ErrLineBreak", s, err)
		}
	}
	if err := reg.ReplaceAll([]string{"ok", "a\nb"}); !errors.Is(err, ErrLineBreak) {
		t.Errorf("ReplaceAll = %v, want ErrLineBreak", err)
	}

	sources, err := reg.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(sources, []string{"https://a.example/feed"}) {
		t.Errorf("Rejected sources must not be stored, got %v", sources)
	}
}

func TestAdd_KeepsDuplicates(t *testing.T) {
	reg := newTestRegistry(t)

	for i := 0; i < 2; i++ {
		if err := reg.Add("https://a.example/feed"); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	sources, _ := reg.List()
	if len(sources) != 2 {
		t.Errorf("Expected duplicate entries, got %v", sources)
	}
}

func TestReplaceAll_Overwrites(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.Add("https://old.example/feed"); err != nil {
		t.Fatal(err)
	}

	if err := reg.ReplaceAll([]string{"a", "b"}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	sources, err := reg.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(sources, []string{"a", "b"}) {
		t.Errorf("Expected [a b], got %v", sources)
	}

	dat, _ := os.ReadFile(reg.Path())
	if string(dat) != "a\nb\n" {
		t.Errorf("Expected trailing newline, got %q", dat)
	}

	// No temporary files left behind
	entries, _ := os.ReadDir(filepath.Dir(reg.Path()))
	if len(entries) != 1 {
		t.Errorf("Expected only the sources file, got %d entries", len(entries))
	}
}

func TestReplaceAll_KeepsFileMode(t *testing.T) {
	reg := newTestRegistry(t)
	if err := reg.ReplaceAll([]string{"a"}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	info, err := os.Stat(reg.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0644 {
		t.Errorf("Expected mode 0644, got %o", perm)
	}
}

func TestReplaceAll_Empty(t *testing.T) {
	reg := newTestRegistry(t)
	_ = reg.Add("a")

	if err := reg.ReplaceAll(nil); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}
	sources, _ := reg.List()
	if len(sources) != 0 {
		t.Errorf("Expected empty list, got %v", sources)
	}
}

func TestList_SkipsBlankLines(t *testing.T) {
	reg := newTestRegistry(t)
	if err := os.MkdirAll(filepath.Dir(reg.Path()), 0755); err != nil {
		t.Fatal(err)
	}
	content := "a\n\n   \n\tb\nc\n\n"
	if err := os.WriteFile(reg.Path(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sources, err := reg.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(sources, []string{"a", "\tb", "c"}) {
		t.Errorf("Unexpected sources %q", sources)
	}
}

func TestList_Idempotent(t *testing.T) {
	reg := newTestRegistry(t)
	_ = reg.ReplaceAll([]string{"x", "y", "z"})

	first, err := reg.List()
	if err != nil {
		t.Fatal(err)
	}
	second, err := reg.List()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("List not idempotent: %v vs %v", first, second)
	}
}

func TestAdd_IOErrorPropagates(t *testing.T) {
	// A regular file where the directory should be
	base := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(base, nil, 0644); err != nil {
		t.Fatal(err)
	}
	reg := NewRegistry(filepath.Join(base, "sources.txt"))

	err := reg.Add("a")
	if !errors.Is(err, &types.Error{Kind: types.LocalIO}) {
		t.Errorf("Expected LocalIO error, got %v", err)
	}
}

func TestDefault_NoConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	_, err := Default()
	if !errors.Is(err, config.ErrNoConfigDir) {
		t.Errorf("Expected ErrNoConfigDir, got %v", err)
	}
	if !errors.Is(err, &types.Error{Kind: types.NoConfigDir}) {
		t.Errorf("Expected NoConfigDir kind, got %v", err)
	}
}

func TestDefault_UsesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	reg, err := Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if reg.Path() != filepath.Join(dir, "rss-list", "sources.txt") {
		t.Errorf("Unexpected path %s", reg.Path())
	}
}
