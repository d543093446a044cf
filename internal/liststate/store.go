// Package liststate holds the client-side state of paginated entity lists:
// the current page of rows, its filters, and the reorder workflow.
package liststate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/logging"
	"github.com/osteele/pubadmin/internal/pagination"
)

var (
	// ErrStale is returned by Fetch when a newer fetch was issued, or the
	// store was closed, before the response arrived. The response is dropped.
	ErrStale = errors.New("stale response discarded")
	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("list store closed")
)

// Gateway is the slice of the remote API a store needs.
type Gateway[T any] interface {
	List(ctx context.Context, p api.ListParams) (api.Page[T], error)
	Remove(ctx context.Context, id string) error
}

// Options configure a Store.
type Options struct {
	PageSize    int
	Filters     Filters // initial filters, restored by ResetFilters
	LoadFailure string  // message used when a failed fetch carries none
	Logger      *slog.Logger
}

// Meta is the non-row part of a list's state.
type Meta struct {
	TotalCount  int
	CurrentPage int
	PageSize    int
	TotalPages  int
	IsLoading   bool
	Error       string
	Filters     Filters
}

// Offset returns the index of the first row on the current page.
func (m Meta) Offset() int {
	return pagination.Offset(m.CurrentPage, m.PageSize)
}

// Snapshot is a consistent copy of a store's state.
type Snapshot[T any] struct {
	Meta
	Items   []T
	Version uint64
}

// Store is the state of one paginated list. Rows change only through Fetch,
// Delete and a committed reorder.
type Store[T any] struct {
	mu     sync.Mutex
	gw     Gateway[T]
	id     func(T) string
	logger *slog.Logger

	items       []T
	totalCount  int
	currentPage int
	pageSize    int
	loading     bool
	err         string
	filters     Filters
	initial     Filters
	loadFailure string

	seq        uint64 // id of the latest issued fetch
	fetchedKey string // query key of the latest issued fetch
	fetched    bool
	version    uint64 // bumped whenever items change
	closed     bool
}

// New creates a store. id extracts the identifier used by Delete.
func New[T any](gw Gateway[T], id func(T) string, opts Options) *Store[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.LoadFailure == "" {
		opts.LoadFailure = "Failed to load list"
	}
	return &Store[T]{
		gw:          gw,
		id:          id,
		logger:      logging.OrDiscard(opts.Logger),
		items:       []T{},
		currentPage: 1,
		pageSize:    opts.PageSize,
		filters:     opts.Filters.clone(),
		initial:     opts.Filters.clone(),
		loadFailure: opts.LoadFailure,
	}
}

// ID returns the identifier of item.
func (s *Store[T]) ID(item T) string {
	return s.id(item)
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T]{
		Meta:    s.metaLocked(),
		Items:   slices.Clone(s.items),
		Version: s.version,
	}
}

// Meta returns the current state without rows.
func (s *Store[T]) Meta() Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metaLocked()
}

func (s *Store[T]) metaLocked() Meta {
	return Meta{
		TotalCount:  s.totalCount,
		CurrentPage: s.currentPage,
		PageSize:    s.pageSize,
		TotalPages:  pagination.TotalPages(s.totalCount, s.pageSize),
		IsLoading:   s.loading,
		Error:       s.err,
		Filters:     s.filters.clone(),
	}
}

// SetPage moves to page n, clamped to the known page range, and returns the
// page actually selected. It does not fetch; see NeedsFetch.
func (s *Store[T]) SetPage(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentPage = pagination.Clamp(n, pagination.TotalPages(s.totalCount, s.pageSize))
	return s.currentPage
}

// SetFilters merges the patch and returns to the first page.
func (s *Store[T]) SetFilters(p FilterPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.filters.Merge(p)
	s.currentPage = 1
}

// ResetFilters restores the initial filters and returns to the first page.
func (s *Store[T]) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = s.initial.clone()
	s.currentPage = 1
}

// Filters returns the active filters.
func (s *Store[T]) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.clone()
}

// NeedsFetch reports whether the page or filters changed since the last
// fetch was issued.
func (s *Store[T]) NeedsFetch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && (!s.fetched || s.fetchedKey != s.queryKeyLocked())
}

func (s *Store[T]) queryKeyLocked() string {
	return fmt.Sprintf("%d\x1e%s", s.currentPage, s.filters.key())
}

// Fetch loads the current page. Only the latest issued fetch may apply its
// result; earlier ones return ErrStale. On failure the previous rows stay in
// place and the error message is kept until the next successful fetch.
func (s *Store[T]) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.seq++
	seq := s.seq
	params := s.filters.Params()
	params.Offset = pagination.Offset(s.currentPage, s.pageSize)
	params.Limit = s.pageSize
	s.fetchedKey = s.queryKeyLocked()
	s.fetched = true
	s.loading = true
	s.mu.Unlock()

	page, err := s.gw.List(ctx, params)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		s.logger.Debug("discarding stale list response", "request", seq, "latest", s.seq)
		return ErrStale
	}
	s.loading = false
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.err = api.Message(err, s.loadFailure)
		}
		s.logger.Warn("list fetch failed", "offset", params.Offset, "error", err)
		return err
	}

	s.items = page.Items
	if s.items == nil {
		s.items = []T{}
	}
	s.totalCount = page.TotalCount
	s.err = ""
	s.version++
	return nil
}

// Delete removes the row remotely, then locally, decrementing the total
// without a refetch. The current page is left as is even if it empties.
// On failure nothing changes.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if err := s.gw.Remove(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.items = slices.DeleteFunc(slices.Clone(s.items), func(item T) bool { return s.id(item) == id })
	s.totalCount = max(0, s.totalCount-1)
	s.version++
	return nil
}

// commitOrder replaces the rows with a reordered copy of the same rows,
// provided nothing else changed them since version.
func (s *Store[T]) commitOrder(items []T, version uint64) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.version != version || len(items) != len(s.items) {
		return s.version, false
	}
	s.items = slices.Clone(items)
	s.version++
	return s.version, true
}

// Close detaches the store. Responses that arrive later are discarded.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.loading = false
}
