package liststate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/osteele/pubadmin/internal/api"
)

// ReorderState is the phase of the reorder workflow.
type ReorderState int

const (
	Idle ReorderState = iota
	Dragging
	Reconciling
	RollingBack
)

func (s ReorderState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Reconciling:
		return "saving order"
	case RollingBack:
		return "rolling back"
	}
	return "idle"
}

var (
	// ErrBusy is returned when a row is already being moved.
	ErrBusy = errors.New("another row is being moved")
	// ErrNotDragging is returned by Drop when no row is picked.
	ErrNotDragging = errors.New("no row is being moved")
	// ErrFiltered is returned by Pick while a search or type filter hides
	// some siblings. Ranking the visible rows alone would give hidden rows
	// duplicate sortOrders.
	ErrFiltered = errors.New("clear the search and type filters to reorder")
	// ErrUnscoped is returned by Pick when rows are ranked per parent and
	// the list shows more than one parent's rows.
	ErrUnscoped = errors.New("open the list from its parent to reorder")
)

// SubmitFunc sends a complete sortOrder assignment to the backend.
type SubmitFunc func(ctx context.Context, items []api.ReorderItem) error

// Reorderer moves rows of a store's current page. It keeps its own ordered
// copy of the rows, re-synced from the store whenever the store changes while
// no move is in progress. A move is applied locally at once, submitted as
// one batch on Drop, and undone if the submit fails.
type Reorderer[T any] struct {
	mu       sync.Mutex
	store    *Store[T]
	submit   SubmitFunc
	setOrder func(T, int) T

	state  ReorderState
	local  []T
	before []T
	synced uint64
	loaded bool
	picked int

	// RequireScope is set when sortOrder ranks rows within a parent, so
	// only a list scoped to one parent can be reordered.
	RequireScope bool

	// OnTransition, when set, observes every state change. It runs with the
	// reorderer locked and must not call back into it.
	OnTransition func(from, to ReorderState)
}

// NewReorderer creates a reorderer over store. setOrder writes a sortOrder
// into a row and returns the updated row.
func NewReorderer[T any](store *Store[T], submit SubmitFunc, setOrder func(T, int) T) *Reorderer[T] {
	return &Reorderer[T]{
		store:    store,
		submit:   submit,
		setOrder: setOrder,
		picked:   -1,
	}
}

// Items returns the rows in display order, including an in-progress move.
func (r *Reorderer[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.syncLocked()
	return slices.Clone(r.local)
}

// State returns the current phase.
func (r *Reorderer[T]) State() ReorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Picked returns the index of the row being moved, or -1.
func (r *Reorderer[T]) Picked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.picked
}

func (r *Reorderer[T]) syncLocked() {
	if r.state != Idle {
		return
	}
	snap := r.store.Snapshot()
	if !r.loaded || snap.Version != r.synced {
		r.local = snap.Items
		r.synced = snap.Version
		r.loaded = true
	}
}

func (r *Reorderer[T]) setState(to ReorderState) {
	from := r.state
	r.state = to
	if r.OnTransition != nil && from != to {
		r.OnTransition(from, to)
	}
}

// Pick starts moving the row at index. The list must hold every sibling in
// rank order: no search or type filter, and one parent when RequireScope is
// set.
func (r *Reorderer[T]) Pick(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Idle {
		return ErrBusy
	}
	f := r.store.Filters()
	if f.Text != "" || len(f.Types) > 0 {
		return ErrFiltered
	}
	if r.RequireScope && f.Scope == "" {
		return ErrUnscoped
	}
	r.syncLocked()
	if index < 0 || index >= len(r.local) {
		return fmt.Errorf("row %d out of range", index)
	}
	r.before = slices.Clone(r.local)
	r.picked = index
	r.setState(Dragging)
	return nil
}

// Step moves the picked row by delta positions, stopping at either end, and
// returns its new index.
func (r *Reorderer[T]) Step(delta int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Dragging {
		return r.picked
	}
	r.moveLocked(r.picked + delta)
	return r.picked
}

// MoveTo places the picked row at index, clamped to the list.
func (r *Reorderer[T]) MoveTo(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == Dragging {
		r.moveLocked(index)
	}
}

func (r *Reorderer[T]) moveLocked(to int) {
	to = max(0, min(to, len(r.local)-1))
	if to == r.picked {
		return
	}
	r.local = splice(r.local, r.picked, to)
	r.picked = to
}

// Cancel abandons the move and restores the order from before Pick.
func (r *Reorderer[T]) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != Dragging {
		return
	}
	r.local = r.before
	r.before = nil
	r.picked = -1
	r.setState(Idle)
}

// Drop submits the new order of the whole visible list. sortOrder values are
// dense and 1-based across pages: row i of page p gets (p-1)*pageSize+i+1.
// On success the order is committed to the store; on failure the order from
// before Pick is restored and the error returned. Dropping a row where it
// started submits nothing and returns nil items.
func (r *Reorderer[T]) Drop(ctx context.Context) ([]api.ReorderItem, error) {
	r.mu.Lock()
	if r.state != Dragging {
		r.mu.Unlock()
		return nil, ErrNotDragging
	}
	if r.sameOrderLocked() {
		r.before = nil
		r.picked = -1
		r.setState(Idle)
		r.mu.Unlock()
		return nil, nil
	}

	offset := r.store.Meta().Offset()
	payload := make([]api.ReorderItem, len(r.local))
	ordered := make([]T, len(r.local))
	for i, item := range r.local {
		payload[i] = api.ReorderItem{ID: api.FlexID(r.store.ID(item)), SortOrder: offset + i + 1}
		ordered[i] = item
		if r.setOrder != nil {
			ordered[i] = r.setOrder(item, offset+i+1)
		}
	}
	r.setState(Reconciling)
	r.mu.Unlock()

	err := r.submit(ctx, payload)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.picked = -1
	if err != nil {
		r.setState(RollingBack)
		r.local = r.before
		r.before = nil
		r.setState(Idle)
		return payload, err
	}

	r.local = ordered
	r.before = nil
	if version, ok := r.store.commitOrder(ordered, r.synced); ok {
		r.synced = version
	}
	r.setState(Idle)
	return payload, nil
}

// MoveItem moves the row at from to index to and submits the new order.
func (r *Reorderer[T]) MoveItem(ctx context.Context, from, to int) ([]api.ReorderItem, error) {
	if err := r.Pick(from); err != nil {
		return nil, err
	}
	r.MoveTo(to)
	return r.Drop(ctx)
}

func (r *Reorderer[T]) sameOrderLocked() bool {
	if len(r.before) != len(r.local) {
		return false
	}
	for i := range r.local {
		if r.store.ID(r.before[i]) != r.store.ID(r.local[i]) {
			return false
		}
	}
	return true
}

// splice returns a copy of items with the element at from moved to to.
func splice[T any](items []T, from, to int) []T {
	out := slices.Clone(items)
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved)
}
