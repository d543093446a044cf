package liststate

import (
	"slices"
	"strings"

	"github.com/osteele/pubadmin/internal/api"
)

// DuplicateTab is the user tab that lists accounts flagged as duplicates.
const DuplicateTab = "Duplicate"

// Option is a selectable filter value.
type Option struct {
	Value string
	Label string
}

// Filters are the server-side filters of one list.
type Filters struct {
	Text       string
	Scope      string // parent entity id, e.g. the Topic of a SubTopic list
	ScopeLabel string
	Types      []string // ordered set
	Tab        string
}

// FilterPatch changes the fields that are non-nil.
type FilterPatch struct {
	Text       *string
	Scope      *string
	ScopeLabel *string
	Types      *[]string
	Tab        *string
}

// Merge returns f with the patch applied. Duplicate type tags collapse.
func (f Filters) Merge(p FilterPatch) Filters {
	out := f.clone()
	if p.Text != nil {
		out.Text = strings.TrimSpace(*p.Text)
	}
	if p.Scope != nil {
		out.Scope = *p.Scope
		out.ScopeLabel = ""
	}
	if p.ScopeLabel != nil {
		out.ScopeLabel = *p.ScopeLabel
	}
	if p.Types != nil {
		out.Types = dedupe(*p.Types)
	}
	if p.Tab != nil {
		out.Tab = *p.Tab
	}
	return out
}

// HasType reports whether tag is selected.
func (f Filters) HasType(tag string) bool {
	return slices.Contains(f.Types, tag)
}

// Toggle returns a patch that adds tag when absent and removes it otherwise.
func (f Filters) Toggle(tag string) FilterPatch {
	var types []string
	if f.HasType(tag) {
		types = slices.DeleteFunc(slices.Clone(f.Types), func(t string) bool { return t == tag })
	} else {
		types = append(slices.Clone(f.Types), tag)
	}
	return FilterPatch{Types: &types}
}

// ClearTypes returns a patch that empties the type selection.
func ClearTypes() FilterPatch {
	types := []string{}
	return FilterPatch{Types: &types}
}

// SetText returns a patch for the free-text query.
func SetText(text string) FilterPatch {
	return FilterPatch{Text: &text}
}

// SetTab returns a patch selecting tab.
func SetTab(tab string) FilterPatch {
	return FilterPatch{Tab: &tab}
}

// SetScope returns a patch restricting the list to a parent entity.
func SetScope(id, label string) FilterPatch {
	return FilterPatch{Scope: &id, ScopeLabel: &label}
}

// IsZero reports whether no filter is active. The tab is not a filter.
func (f Filters) IsZero() bool {
	return f.Text == "" && f.Scope == "" && len(f.Types) == 0
}

// Params converts the filters into list query parameters.
func (f Filters) Params() api.ListParams {
	return api.ListParams{
		Text:  f.Text,
		Scope: f.Scope,
		Types: slices.Clone(f.Types),
		Role:  RoleForTab(f.Tab),
	}
}

// RoleForTab maps a user tab to its role parameter. The default "User" tab
// sends no role; "Duplicate" is a flag rather than a role.
func RoleForTab(tab string) string {
	switch tab {
	case "", "User":
		return ""
	case DuplicateTab:
		return "isDuplicate"
	}
	return strings.ToLower(tab)
}

func (f Filters) key() string {
	var b strings.Builder
	for _, part := range []string{f.Text, f.Scope, strings.Join(f.Types, "\x1f"), f.Tab} {
		b.WriteString(part)
		b.WriteByte('\x1e')
	}
	return b.String()
}

func (f Filters) clone() Filters {
	f.Types = slices.Clone(f.Types)
	return f
}

func dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
