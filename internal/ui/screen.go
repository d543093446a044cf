package ui

import (
	"context"
	"os/exec"

	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/liststate"
)

// Column is a table column header with its preferred width in cells.
type Column struct {
	Title string
	Width int
}

// Capabilities are the actions a screen supports.
type Capabilities struct {
	Create    bool
	Edit      bool
	Delete    bool
	Reorder   bool
	Toggle    string // key hint for the row toggle, e.g. "duplicate"; empty when absent
	DrillDown string // label of the child screen opened with enter
}

// Screen is one entity list as the UI sees it.
type Screen interface {
	Name() string
	Title() string
	Columns() []Column
	// Rows returns the visible rows as cells, in display order. During a
	// reorder this is the locally moved order.
	Rows() [][]string
	Meta() liststate.Meta
	Tabs() []string
	TypeOptions() []liststate.Option
	Capabilities() Capabilities

	NeedsFetch() bool
	Fetch(ctx context.Context) error
	SetPage(n int) int
	SetFilters(p liststate.FilterPatch)
	ResetFilters()

	// Describe names a row for prompts, e.g. `topic "Ethics"`.
	Describe(row int) string
	Delete(ctx context.Context, row int) (string, error)
	Toggle(ctx context.Context, row int) (string, error)
	// Detail returns a markdown description of a row.
	Detail(row int) string
	// Edit prepares an editor session for a row, or for a new entity when
	// row is negative.
	Edit(row int) (EditSession, error)
	Export(dir string) (string, error)
	// DrillDown returns the screen to open for a row and the filters to
	// apply to it.
	DrillDown(row int) (target string, patch liststate.FilterPatch, ok bool)
	// Reorder returns nil when rows cannot be reordered.
	Reorder() Reorder
}

// Reorder drives a keyboard move of one row.
type Reorder interface {
	State() liststate.ReorderState
	Picked() int
	Pick(row int) error
	Step(delta int) int
	Cancel()
	Drop(ctx context.Context) ([]api.ReorderItem, error)
}

// EditSession is a document being edited in an external editor.
type EditSession interface {
	// Command returns the editor process to run in the terminal.
	Command() *exec.Cmd
	// Submit reads the edited document and sends it. An unchanged
	// document cancels the edit and returns a message saying so.
	Submit(ctx context.Context) (string, error)
}
