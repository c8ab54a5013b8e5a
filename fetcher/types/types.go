package types

import (
	"sort"
	"time"
)

// Feed is the normalized content of one source.
// Optional fields are empty strings when absent.
type Feed struct {
	Title       string
	Source      string // Endpoint the feed was fetched from
	Description string
	URL         string // Feed homepage, first link
	Icon        string // Local path of the cached icon
	Posts       []Post
}

// Post is a single entry of a feed. Publisher is the owning feed's title so
// posts can be merged across feeds without a back-reference.
type Post struct {
	Title     string
	Summary   string
	URL       string
	Publisher string
	Published time.Time
}

// MergePosts flattens the posts of all feeds into one list ordered by
// publication time, newest first. Equal timestamps keep feed order.
func MergePosts(feeds []Feed) []Post {
	var total int
	for _, f := range feeds {
		total += len(f.Posts)
	}

	posts := make([]Post, 0, total)
	for _, f := range feeds {
		posts = append(posts, f.Posts...)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published.After(posts[j].Published)
	})
	return posts
}
