// Package filter decides which canonical jobs are worth ingesting.
package filter

import (
	"strings"

	"github.com/amishk599/boardsync/internal/model"
)

// Options lists the keyword sets of a KeywordFilter. Matching is a
// case-insensitive substring test and every empty list passes all jobs.
type Options struct {
	TitleKeywords        []string // title must contain one
	TitleExcludeKeywords []string // title must contain none
	Locations            []string // location or country must contain one
	ExcludeLocations     []string // location must contain none
}

// KeywordFilter matches jobs by title and location keywords.
type KeywordFilter struct {
	titleKeywords    []string
	titleExcludes    []string
	locations        []string
	excludeLocations []string
}

var _ model.JobFilter = (*KeywordFilter)(nil)

// New returns a filter for opts. The zero Options match every job.
func New(opts Options) *KeywordFilter {
	return &KeywordFilter{
		titleKeywords:    lowerAll(opts.TitleKeywords),
		titleExcludes:    lowerAll(opts.TitleExcludeKeywords),
		locations:        lowerAll(opts.Locations),
		excludeLocations: lowerAll(opts.ExcludeLocations),
	}
}

// Match reports whether job passes every configured keyword list. A remote
// job passes the location allow-list when it includes "remote".
func (f *KeywordFilter) Match(job model.CanonicalJob) bool {
	title := strings.ToLower(job.Title)
	location := strings.ToLower(job.Location)
	country := strings.ToLower(job.Country)

	if len(f.titleKeywords) > 0 && !containsAny(title, f.titleKeywords) {
		return false
	}
	if containsAny(title, f.titleExcludes) {
		return false
	}

	if len(f.locations) > 0 {
		matched := containsAny(location, f.locations) ||
			(country != "" && containsAny(country, f.locations)) ||
			(job.Remote && contains(f.locations, "remote"))
		if !matched {
			return false
		}
	}
	if containsAny(location, f.excludeLocations) {
		return false
	}

	return true
}

// containsAny reports whether s contains any of the keywords.
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
