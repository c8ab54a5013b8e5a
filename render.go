package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/scipunch/rsslist/fetcher/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Faint(true)
	linkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type renderer struct {
	w     io.Writer
	width int // 0 disables truncation
}

func newRenderer(w io.Writer) *renderer {
	r := &renderer{w: w}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			r.width = width
		}
	}
	return r
}

func (r *renderer) line(style lipgloss.Style, s string) {
	if r.width > 0 {
		style = style.MaxWidth(r.width)
	}
	fmt.Fprintln(r.w, style.Render(s))
}

func (r *renderer) info(msg string) {
	r.line(infoStyle, msg)
}

func (r *renderer) err(msg string) {
	r.line(errorStyle, msg)
}

func (r *renderer) posts(posts []types.Post, limit int) {
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	for _, p := range posts {
		r.line(titleStyle, p.Title)
		r.line(metaStyle, fmt.Sprintf("%s - %s", p.Published.Format("2006-01-02 15:04"), p.Publisher))
		r.line(linkStyle, p.URL)
		fmt.Fprintln(r.w)
	}
}

func (r *renderer) summary(feeds, failed int) {
	msg := fmt.Sprintf("%d feeds loaded", feeds)
	if failed > 0 {
		r.err(fmt.Sprintf("%s, %d failed", msg, failed))
		return
	}
	r.info(msg)
}
