package app

import (
	"github.com/google/uuid"

	"github.com/scipunch/rsslist/fetcher/types"
)

// Event is a notification delivered on App.Events. The concrete types are
// SourceAdded, ReloadStarted, ReloadError, ReloadFailed and ReloadComplete.
type Event interface {
	event()
}

// SourceAdded is sent after a source was appended to the registry.
type SourceAdded struct {
	Source string
}

// ReloadStarted is the first event of every reload.
type ReloadStarted struct {
	ID uuid.UUID
}

// ReloadError reports one failed source. Each arrives before the terminal
// event of its reload.
type ReloadError struct {
	ID  uuid.UUID
	Err error
}

// ReloadFailed is terminal: the source list could not be read, so nothing
// was fetched.
type ReloadFailed struct {
	ID  uuid.UUID
	Err error
}

// ReloadComplete is terminal and carries the successfully fetched feeds.
type ReloadComplete struct {
	ID    uuid.UUID
	Feeds []types.Feed
}

// Posts merges the posts of every feed, newest first.
func (e ReloadComplete) Posts() []types.Post {
	return types.MergePosts(e.Feeds)
}

func (SourceAdded) event()    {}
func (ReloadStarted) event()  {}
func (ReloadError) event()    {}
func (ReloadFailed) event()   {}
func (ReloadComplete) event() {}
