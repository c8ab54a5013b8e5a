// Package parser turns raw syndication documents (RSS, Atom, JSON Feed) into
// the normalized feed model.
package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/scipunch/rsslist/fetcher/types"
)

// Document is a parsed feed plus the remote icon it advertises, if any.
type Document struct {
	Feed    types.Feed
	IconURL string
}

// Parse normalizes body fetched from source. A feed without a title is a
// MissingField error; entries without a title, link or timestamp are dropped.
func Parse(source string, body []byte) (Document, error) {
	var doc Document

	raw, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return doc, &types.Error{Kind: types.Parse, Source: source, Err: err}
	}

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return doc, &types.Error{Kind: types.MissingField, Source: source, Field: "title"}
	}

	doc.Feed = types.Feed{
		Title:       title,
		Source:      source,
		Description: strings.TrimSpace(raw.Description),
		URL:         firstLink(raw.Link, raw.Links),
		Posts:       make([]types.Post, 0, len(raw.Items)),
	}
	if raw.Image != nil {
		doc.IconURL = strings.TrimSpace(raw.Image.URL)
	}

	for _, item := range raw.Items {
		if post, ok := convertItem(item, title); ok {
			doc.Feed.Posts = append(doc.Feed.Posts, post)
		}
	}

	return doc, nil
}

func convertItem(item *gofeed.Item, publisher string) (types.Post, bool) {
	var post types.Post

	title := strings.TrimSpace(item.Title)
	link := firstLink(item.Link, item.Links)
	if title == "" || link == "" {
		return post, false
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}
	if published == nil {
		return post, false
	}

	summary := plainText(item.Description)
	if summary == "" {
		summary = plainText(item.Content)
	}

	return types.Post{
		Title:     title,
		Summary:   summary,
		URL:       link,
		Publisher: publisher,
		Published: published.UTC(),
	}, true
}

// firstLink prefers the alternate link gofeed resolves over the raw link
// list, so enclosures listed first do not become the post URL.
func firstLink(link string, links []string) string {
	if l := strings.TrimSpace(link); l != "" {
		return l
	}
	for _, l := range links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

// plainText strips markup from feed-provided HTML.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
