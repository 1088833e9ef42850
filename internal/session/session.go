// Package session holds the per-user page state: the keyword, the selected
// category, the current recommendation, and whether a search is in flight.
//
// Every surface (terminal, web, Telegram, MCP) drives the same transitions:
//
//	idle -> ready -> loading -> resolved | empty
//
// Each search is issued under a Ticket. A result is applied only when its
// ticket is still the latest one, so a slow response can never overwrite the
// state produced by a newer keyword or category.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/search"
)

// State is the derived page state.
type State string

// Page states.
const (
	StateIdle     State = "idle"
	StateReady    State = "ready"
	StateLoading  State = "loading"
	StateResolved State = "resolved"
	StateEmpty    State = "empty"
)

// Searcher runs a keyword search for one category.
type Searcher interface {
	Search(ctx context.Context, category core.Category, keyword string) ([]core.Recommendation, error)
}

// Ticket identifies one search request.
type Ticket struct {
	Seq      uint64
	Category core.Category
	Keyword  string
}

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	State             State
	Keyword           string
	Category          core.Category
	Recommendation    core.Recommendation
	HasSearched       bool
	Loading           bool
	CategoriesEnabled bool
}

// Session is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	searcher Searcher
	pick     func([]core.Recommendation) (core.Recommendation, bool)
	logger   *slog.Logger

	keyword     string
	category    core.Category
	rec         core.Recommendation
	hasSearched bool
	loading     bool
	seq         uint64
}

// New creates an idle session.
func New(searcher Searcher, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		searcher: searcher,
		pick:     search.PickRandom[core.Recommendation],
		logger:   logger,
	}
}

// KeywordRequired is shown when a category is chosen before a keyword.
func KeywordRequired() *core.Notice {
	return &core.Notice{
		Kind:        core.NoticeWarning,
		Title:       "Enter a keyword first",
		Description: "Please enter a keyword to search for recommendations.",
	}
}

// NoResults is shown when a search finished without a match.
func NoResults(category core.Category) *core.Notice {
	return &core.Notice{
		Kind:        core.NoticeEmpty,
		Title:       "No results found",
		Description: fmt.Sprintf("We couldn't find any %s matching your keyword. Try a different search term.", category),
	}
}

// NothingToReplace is shown when another pick is requested without a current one.
func NothingToReplace() *core.Notice {
	return &core.Notice{
		Kind:        core.NoticeWarning,
		Title:       "Nothing to replace",
		Description: "Pick a category first, then ask for another.",
	}
}

// SearchFailed is shown when a search faulted instead of returning a list.
func SearchFailed() *core.Notice {
	return &core.Notice{
		Kind:        core.NoticeError,
		Title:       "Error",
		Description: "Failed to fetch recommendations. Please try again.",
	}
}

// SetKeyword stores a new keyword and resets the category, the
// recommendation and the has-searched flag. Any search in flight is
// abandoned: its result will be ignored.
func (s *Session) SetKeyword(keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keyword = strings.TrimSpace(keyword)
	s.category = ""
	s.rec = nil
	s.hasSearched = false
	s.loading = false
	s.seq++
}

// Begin starts a search for category. Without a keyword nothing changes and
// the keyword-required notice is returned. Calling Begin while loading
// restarts the search for the new category.
func (s *Session) Begin(category core.Category) (Ticket, *core.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keyword == "" {
		return Ticket{}, KeywordRequired()
	}
	s.seq++
	s.loading = true
	s.category = category
	s.rec = nil
	return Ticket{Seq: s.seq, Category: category, Keyword: s.keyword}, nil
}

// Fetch runs the search described by t. A panicking searcher is reported
// as an error.
func (s *Session) Fetch(ctx context.Context, t Ticket) (results []core.Recommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("search panicked: %v", r)
		}
	}()
	return s.searcher.Search(ctx, t.Category, t.Keyword)
}

// Outcome is the result of one Select or Another call.
type Outcome struct {
	Recommendation core.Recommendation // the pick, when the search resolved
	Notice         *core.Notice
	Applied        bool // false when a newer search superseded this one
}

// Complete applies the outcome of the search issued under t. It reports
// false when t has been superseded, in which case nothing changes.
func (s *Session) Complete(t Ticket, results []core.Recommendation, err error) (*core.Notice, bool) {
	out := s.complete(t, results, err)
	return out.Notice, out.Applied
}

func (s *Session) complete(t Ticket, results []core.Recommendation, err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.seq {
		s.logger.Debug("dropping stale search result",
			slog.Uint64("ticket", t.Seq),
			slog.Uint64("current", s.seq),
		)
		return Outcome{}
	}
	s.loading = false

	if err != nil {
		s.logger.Error("error fetching recommendation",
			slog.String("category", t.Category.String()),
			slog.String("error", err.Error()),
		)
		return Outcome{Notice: SearchFailed(), Applied: true}
	}

	s.hasSearched = true
	rec, ok := s.pick(results)
	if !ok {
		return Outcome{Notice: NoResults(t.Category), Applied: true}
	}
	s.rec = rec
	return Outcome{Recommendation: rec, Applied: true}
}

// Select runs Begin, Fetch and Complete in one call. The recommendation is
// returned with the outcome so callers need not race a later Snapshot.
func (s *Session) Select(ctx context.Context, category core.Category) Outcome {
	t, notice := s.Begin(category)
	if notice != nil {
		return Outcome{Notice: notice, Applied: true}
	}
	results, err := s.Fetch(ctx, t)
	return s.complete(t, results, err)
}

// Another re-runs the selection for the current category. Unless a
// recommendation is showing it searches nothing and returns the
// nothing-to-replace notice.
func (s *Session) Another(ctx context.Context) Outcome {
	s.mu.Lock()
	resolved := s.rec != nil && !s.loading
	category := s.category
	s.mu.Unlock()

	if !resolved {
		return Outcome{Notice: NothingToReplace(), Applied: true}
	}
	return s.Select(ctx, category)
}

// CategoriesEnabled reports whether a category can be chosen right now.
func (s *Session) CategoriesEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyword != "" && !s.loading
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:             s.state(),
		Keyword:           s.keyword,
		Category:          s.category,
		Recommendation:    s.rec,
		HasSearched:       s.hasSearched,
		Loading:           s.loading,
		CategoriesEnabled: s.keyword != "" && !s.loading,
	}
}

func (s *Session) state() State {
	switch {
	case s.loading:
		return StateLoading
	case s.rec != nil:
		return StateResolved
	case s.keyword == "":
		return StateIdle
	case s.hasSearched:
		return StateEmpty
	default:
		return StateReady
	}
}
