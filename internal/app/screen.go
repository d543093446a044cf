package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/form"
	"github.com/osteele/pubadmin/internal/liststate"
	"github.com/osteele/pubadmin/internal/ui"
)

// DetailField is one labelled value of the detail view.
type DetailField struct {
	Label string
	Value string
	HTML  bool // value is rich text to be reduced to plain text
}

// Binding configures the generic screen for one entity type.
type Binding[T any] struct {
	Resource api.Resource
	Schema   form.Schema
	Columns  []ui.Column
	PageSize int

	ID     func(T) string
	Name   func(T) string
	Cells  func(T) []string
	Values func(T) map[string]any
	Detail func(T) []DetailField

	// SetOrder is required for reorderable resources.
	SetOrder func(T, int) T
	// NewValues seeds the create form from the active filters.
	NewValues func(liststate.Filters) map[string]any

	Tabs        []string
	TypeOptions []liststate.Option
	DrillDown   string // name of the screen opened with enter

	// Toggle flips a per-row flag. ToggleLabel names it in the key hints.
	Toggle      func(ctx context.Context, c *api.Client, item T) (string, error)
	ToggleLabel string

	// ExportHeader and ExportRow override the visible columns in CSV exports.
	ExportHeader []string
	ExportRow    func(T) []string
}

// screen is a Binding wired to its endpoint and list store.
type screen[T any] struct {
	b       *Binding[T]
	client  *api.Client
	ep      *api.Endpoint[T]
	store   *liststate.Store[T]
	reorder *liststate.Reorderer[T]
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]*editSession // open edit documents, "" for a new entity
}

func newScreen[T any](b *Binding[T], client *api.Client, opts liststate.Options, logger *slog.Logger) *screen[T] {
	ep := api.NewEndpoint[T](client, b.Resource)
	if b.PageSize > 0 {
		opts.PageSize = b.PageSize
	}
	if len(b.Tabs) > 0 && opts.Filters.Tab == "" {
		opts.Filters.Tab = b.Tabs[0]
	}
	opts.LoadFailure = b.Resource.LoadFailure()
	opts.Logger = logger.With("screen", b.Resource.Name)

	s := &screen[T]{
		b:       b,
		client:  client,
		ep:      ep,
		store:   liststate.New[T](ep, b.ID, opts),
		logger:  opts.Logger,
		pending: map[string]*editSession{},
	}
	if b.Resource.Reorderable() && b.SetOrder != nil {
		s.reorder = liststate.NewReorderer(s.store, ep.Reorder, b.SetOrder)
		s.reorder.RequireScope = b.Resource.RanksPerParent()
		s.reorder.OnTransition = func(from, to liststate.ReorderState) {
			s.logger.Debug("reorder", "from", from, "to", to)
		}
	}
	return s
}

func (s *screen[T]) Name() string  { return s.b.Resource.Name }
func (s *screen[T]) Title() string { return s.b.Resource.Label }

func (s *screen[T]) Columns() []ui.Column { return s.b.Columns }

func (s *screen[T]) items() []T {
	if s.reorder != nil {
		return s.reorder.Items()
	}
	return s.store.Snapshot().Items
}

func (s *screen[T]) item(row int) (T, error) {
	items := s.items()
	if row < 0 || row >= len(items) {
		var zero T
		return zero, fmt.Errorf("no %s at row %d", s.b.Resource.Singular, row+1)
	}
	return items[row], nil
}

func (s *screen[T]) Rows() [][]string {
	items := s.items()
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = s.b.Cells(item)
	}
	return rows
}

func (s *screen[T]) Meta() liststate.Meta { return s.store.Meta() }

func (s *screen[T]) Tabs() []string { return s.b.Tabs }

func (s *screen[T]) TypeOptions() []liststate.Option { return s.b.TypeOptions }

func (s *screen[T]) Capabilities() ui.Capabilities {
	res := s.b.Resource
	return ui.Capabilities{
		Create:    res.CreatePath != "",
		Edit:      res.UpdatePath != "",
		Delete:    res.Deletable(),
		Reorder:   s.reorder != nil,
		Toggle:    s.b.ToggleLabel,
		DrillDown: s.b.DrillDown,
	}
}

func (s *screen[T]) NeedsFetch() bool                   { return s.store.NeedsFetch() }
func (s *screen[T]) Fetch(ctx context.Context) error    { return s.store.Fetch(ctx) }
func (s *screen[T]) SetPage(n int) int                  { return s.store.SetPage(n) }
func (s *screen[T]) SetFilters(p liststate.FilterPatch) { s.store.SetFilters(p) }
func (s *screen[T]) ResetFilters()                      { s.store.ResetFilters() }

func (s *screen[T]) Describe(row int) string {
	item, err := s.item(row)
	if err != nil {
		return s.b.Resource.Singular
	}
	return fmt.Sprintf("%s %q", s.b.Resource.Singular, s.b.Name(item))
}

func (s *screen[T]) Delete(ctx context.Context, row int) (string, error) {
	item, err := s.item(row)
	if err != nil {
		return "", err
	}
	desc := s.Describe(row)
	if err := s.store.Delete(ctx, s.b.ID(item)); err != nil {
		return "", err
	}
	s.logger.Info("deleted", "id", s.b.ID(item))
	return "Deleted " + desc, nil
}

func (s *screen[T]) Toggle(ctx context.Context, row int) (string, error) {
	if s.b.Toggle == nil {
		return "", fmt.Errorf("%s rows have no toggle", s.b.Resource.Singular)
	}
	item, err := s.item(row)
	if err != nil {
		return "", err
	}
	return s.b.Toggle(ctx, s.client, item)
}

func (s *screen[T]) Detail(row int) string {
	item, err := s.item(row)
	if err != nil {
		return ""
	}
	return detailMarkdown(s.b.Name(item), s.b.Detail(item))
}

func (s *screen[T]) Edit(row int) (ui.EditSession, error) {
	if _, err := EditorCommand(""); err != nil {
		return nil, err
	}

	key := ""
	var values map[string]any
	var submit submitFunc
	if row < 0 {
		if s.b.NewValues != nil {
			values = s.b.NewValues(s.store.Filters())
		}
		submit = s.create
	} else {
		item, err := s.item(row)
		if err != nil {
			return nil, err
		}
		key = s.b.ID(item)
		values = s.b.Values(item)
		name := s.b.Name(item)
		submit = func(ctx context.Context, v map[string]any) (string, error) {
			return s.update(ctx, key, name, v)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if open, ok := s.pending[key]; ok {
		return open, nil
	}
	sess, err := newEditSession(s.b.Resource.Name, s.b.Schema, values, submit, func() {
		s.mu.Lock()
		delete(s.pending, key)
		s.mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	s.pending[key] = sess
	return sess, nil
}

func (s *screen[T]) create(ctx context.Context, values map[string]any) (string, error) {
	item, err := s.ep.Create(ctx, values)
	if err != nil {
		return "", err
	}
	name := s.b.Name(item)
	if name == "" {
		name = fmt.Sprint(values[s.b.Schema.Fields[0].Key])
	}
	s.logger.Info("created", "id", s.b.ID(item))
	return fmt.Sprintf("Created %s %q", s.b.Resource.Singular, name), nil
}

func (s *screen[T]) update(ctx context.Context, id, name string, values map[string]any) (string, error) {
	if _, err := s.ep.Update(ctx, id, values); err != nil {
		return "", err
	}
	s.logger.Info("updated", "id", id)
	return fmt.Sprintf("Saved %s %q", s.b.Resource.Singular, name), nil
}

func (s *screen[T]) Export(dir string) (string, error) {
	header, row := s.b.ExportHeader, s.b.ExportRow
	if header == nil || row == nil {
		header = make([]string, len(s.b.Columns))
		for i, c := range s.b.Columns {
			header[i] = c.Title
		}
		row = s.b.Cells
	}
	items := s.items()
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = row(item)
	}
	return writeCSV(dir, exportName(s.b.Resource.Name, s.store.Meta().CurrentPage), header, rows)
}

func (s *screen[T]) DrillDown(row int) (string, liststate.FilterPatch, bool) {
	if s.b.DrillDown == "" {
		return "", liststate.FilterPatch{}, false
	}
	item, err := s.item(row)
	if err != nil {
		return "", liststate.FilterPatch{}, false
	}
	return s.b.DrillDown, liststate.SetScope(s.b.ID(item), s.b.Name(item)), true
}

func (s *screen[T]) Reorder() ui.Reorder {
	if s.reorder == nil {
		return nil
	}
	return s.reorder
}

// count returns the unfiltered total using a single-row request.
func (s *screen[T]) count(ctx context.Context) (int, error) {
	page, err := s.ep.List(ctx, api.ListParams{Limit: 1})
	if err != nil {
		return 0, err
	}
	return page.TotalCount, nil
}

func (s *screen[T]) close() {
	s.store.Close()
}
