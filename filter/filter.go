package filter

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"github.com/scipunch/rsslist/config"
	"github.com/scipunch/rsslist/fetcher/types"
)

// FilterPipeline applies a series of named filters to posts
type FilterPipeline struct {
	filters map[string]*CompiledFilter
}

// CompiledFilter contains compiled regex patterns for efficient matching
type CompiledFilter struct {
	config          config.Filter
	excludePatterns []*regexp.Regexp
}

// NewFilterPipeline creates a new filter pipeline from config
func NewFilterPipeline(filtersConfig map[string]config.Filter) *FilterPipeline {
	compiled := make(map[string]*CompiledFilter)

	for name, filterCfg := range filtersConfig {
		cf := &CompiledFilter{
			config:          filterCfg,
			excludePatterns: make([]*regexp.Regexp, 0, len(filterCfg.ExcludePatterns)),
		}

		for _, pattern := range filterCfg.ExcludePatterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				slog.Warn("invalid regex pattern in filter", "filter", name, "pattern", pattern, "error", err)
				continue
			}
			cf.excludePatterns = append(cf.excludePatterns, re)
		}

		compiled[name] = cf
	}

	return &FilterPipeline{filters: compiled}
}

// ShouldInclude returns true if the post passes all filters in the pipeline.
// filterNames is a list of filter names to apply in order
func (fp *FilterPipeline) ShouldInclude(post types.Post, filterNames []string) (bool, string) {
	for _, filterName := range filterNames {
		filter, exists := fp.filters[filterName]
		if !exists {
			slog.Warn("filter not found, skipping", "filter_name", filterName)
			continue
		}

		if shouldInclude, reason := applyFilter(post, filter, filterName); !shouldInclude {
			return false, reason
		}
	}

	return true, ""
}

// Apply returns copies of feeds whose posts passed filterNames. The input
// feeds are left untouched.
func (fp *FilterPipeline) Apply(feeds []types.Feed, filterNames []string) []types.Feed {
	if len(filterNames) == 0 {
		return feeds
	}

	out := make([]types.Feed, len(feeds))
	for i, feed := range feeds {
		kept := make([]types.Post, 0, len(feed.Posts))
		for _, post := range feed.Posts {
			ok, reason := fp.ShouldInclude(post, filterNames)
			if !ok {
				slog.Debug("post filtered out", "title", post.Title, "reason", reason, "url", post.URL)
				continue
			}
			kept = append(kept, post)
		}
		feed.Posts = kept
		out[i] = feed
	}
	return out
}

func applyFilter(post types.Post, filter *CompiledFilter, filterName string) (bool, string) {
	text := strings.TrimSpace(post.Title + " " + post.Summary)

	if filter.config.MinLength > 0 && len(text) < filter.config.MinLength {
		return false, filterName + ":min_length"
	}

	if filter.config.MinWords > 0 && countWords(text) < filter.config.MinWords {
		return false, filterName + ":min_words"
	}

	for _, pattern := range filter.excludePatterns {
		if pattern.MatchString(text) {
			return false, filterName + ":exclude_pattern[" + pattern.String() + "]"
		}
	}

	return true, ""
}

// countWords counts the number of words in text
func countWords(text string) int {
	words := 0
	inWord := false

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if !inWord {
				words++
				inWord = true
			}
		} else {
			inWord = false
		}
	}

	return words
}
