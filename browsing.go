package tagstudio

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/TagStudioDev/tagstudio-engine/querylang"
)

// SortingMode selects the order results come back in from SearchLibrary.
type SortingMode int

const (
	SortDateAdded SortingMode = iota
	SortFileName
	SortPath
	SortRandom
)

// GroupingCriteria names how a caller wants search results grouped
// (e.g. by folder, or by a single tag's presence). BrowsingState
// carries it, but SearchLibrary does not read it: results come back as
// one sorted list whatever its value.
type GroupingCriteria int

const (
	GroupNone GroupingCriteria = iota
	GroupByFolder
	GroupByTag
)

// BrowsingState is an immutable snapshot of what the user is currently
// looking at: a query string (already validated, never parsed more
// than once per state), a sort mode, a sort direction, a random seed
// fixed for the session, a hidden-entry flag, and a grouping criteria.
// Every With* method returns a new value rather than mutating the
// receiver, matching spec.md §4.8's "browsing state is replaced
// wholesale, not patched in place" invariant.
type BrowsingState struct {
	Query             string
	AST               querylang.AST
	Sorting           SortingMode
	Ascending         bool
	RandomSeed        int64
	ShowHiddenEntries bool
	Grouping          GroupingCriteria
	PageIndex         int
}

// newRandomSeed picks a fresh seed for SortRandom ordering. It need
// only be unpredictable across sessions, not cryptographically
// secure: SIN(id * seed) is a deterministic, cheap stand-in for true
// randomness, per spec.md §9.
func newRandomSeed() int64 {
	return rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
}

// ShowAll returns the default state: empty query, newest-first.
func ShowAll() BrowsingState {
	return BrowsingState{Sorting: SortDateAdded, Ascending: false, RandomSeed: newRandomSeed()}
}

// FromSearchQuery parses query and returns a state scoped to it,
// or an error if the query does not parse.
func FromSearchQuery(query string) (BrowsingState, error) {
	ast, err := querylang.Parse(query)
	if err != nil {
		return BrowsingState{}, err
	}
	return BrowsingState{Query: query, AST: ast, Sorting: SortDateAdded, Ascending: false, RandomSeed: newRandomSeed()}, nil
}

// FromTagID returns a state scoped to a single tag_id: constraint.
func FromTagID(id int64) (BrowsingState, error) {
	return FromSearchQuery(fmt.Sprintf("tag_id:%d", id))
}

// FromTagName returns a state scoped to a single tag: constraint.
func FromTagName(name string) (BrowsingState, error) {
	return FromSearchQuery(fmt.Sprintf("tag:%q", name))
}

// FromPath returns a state scoped to a single path: constraint.
func FromPath(p string) (BrowsingState, error) {
	return FromSearchQuery(fmt.Sprintf("path:%q", p))
}

// FromMediatype returns a state scoped to a single mediatype: constraint.
func FromMediatype(name string) (BrowsingState, error) {
	return FromSearchQuery(fmt.Sprintf("mediatype:%s", name))
}

// FromFiletype returns a state scoped to a single filetype: constraint.
func FromFiletype(ext string) (BrowsingState, error) {
	return FromSearchQuery(fmt.Sprintf("filetype:%s", ext))
}

// WithSorting returns a copy of s with a new sort mode and direction.
// Switching to SortRandom refreshes the random seed; any other mode
// preserves whatever seed s already carries, per spec.md §4.8.
func (s BrowsingState) WithSorting(mode SortingMode, ascending bool) BrowsingState {
	s.Sorting = mode
	s.Ascending = ascending
	if mode == SortRandom {
		s.RandomSeed = newRandomSeed()
	}
	return s
}

// WithShowHiddenEntries returns a copy of s with the hidden-entry
// filter toggled.
func (s BrowsingState) WithShowHiddenEntries(show bool) BrowsingState {
	s.ShowHiddenEntries = show
	return s
}

// WithGrouping returns a copy of s with a new grouping criteria.
func (s BrowsingState) WithGrouping(g GroupingCriteria) BrowsingState {
	s.Grouping = g
	return s
}

// WithPageIndex returns a copy of s advanced to a different page.
func (s BrowsingState) WithPageIndex(i int) BrowsingState {
	s.PageIndex = i
	return s
}
