// File: catalog.go
// Title: Resource Catalog
// Description: Aggregates the resources referenced by all sessions into one
//              entry per URL, remembering which sessions use each file.
// Author: msto63
// Version: v0.1.0
// Created: 2026-02-16
// Modified: 2026-02-16
//
// Change History:
// - 2026-02-16 v0.1.0: Initial catalog

package catalog

import (
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/msto63/sessionkit/internal/extract"
	"github.com/msto63/sessionkit/internal/session"
)

// Entry is one distinct resource file
type Entry struct {
	URL         string
	Title       string  // title from the first session that lists the URL
	Description *string // description from the same occurrence as Title

	// Primary is the session with the lowest number that lists the URL
	Primary session.Session

	// UsedIn holds every referencing session number, ascending and unique
	UsedIn []int
}

// FileName returns the output file name for the entry
func (e Entry) FileName() string {
	return Basename(e.URL)
}

// Catalog holds the entries built from one set of sessions
type Catalog struct {
	entries map[string]*Entry
}

// Build aggregates the resources of sessions. Sessions are visited in the
// given order; only URLs of the form /resources/<name>.pdf are kept.
func Build(sessions []session.Session) *Catalog {
	c := &Catalog{entries: make(map[string]*Entry)}

	for _, s := range sessions {
		for _, res := range s.Resources {
			if !extract.IsResourceURL(res.URL) {
				continue
			}
			e, ok := c.entries[res.URL]
			if !ok {
				e = &Entry{
					URL:         res.URL,
					Title:       res.Title,
					Description: res.Description,
					Primary:     s,
				}
				c.entries[res.URL] = e
			} else if s.Number < e.Primary.Number {
				e.Primary = s
			}
			if !slices.Contains(e.UsedIn, s.Number) {
				e.UsedIn = append(e.UsedIn, s.Number)
			}
		}
	}

	for _, e := range c.entries {
		sort.Ints(e.UsedIn)
	}
	return c
}

// Len returns the number of distinct resources
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get returns the entry for url
func (c *Catalog) Get(url string) (Entry, bool) {
	e, ok := c.entries[url]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Entries returns all entries sorted by URL
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Filter returns the entries whose URL matches a doublestar pattern.
// A pattern without '/' is matched against the file name instead, so
// "s1-*.pdf" works as well as "/resources/**/s1-*.pdf". An empty pattern
// matches everything.
func (c *Catalog) Filter(pattern string) ([]Entry, error) {
	all := c.Entries()
	if pattern == "" {
		return all, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}

	byName := !strings.Contains(pattern, "/")
	var out []Entry
	for _, e := range all {
		target := e.URL
		if byName {
			target = Basename(e.URL)
		}
		ok, err := doublestar.Match(pattern, target)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", pattern, err)
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// Basename returns the last element of a resource URL
func Basename(url string) string {
	return path.Base(url)
}
