package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/osteele/pubadmin/internal/liststate"
)

// picker is the type-tag filter dialog. Typing narrows the options by fuzzy
// match on their labels; the best matches come first.
type picker struct {
	options []liststate.Option
	query   textinput.Model
	visible []int // indices into options, in display order
	cursor  int
}

func newPicker(options []liststate.Option) *picker {
	q := textinput.New()
	q.Placeholder = "type to filter"
	q.Prompt = "› "
	q.CharLimit = 64
	q.Focus()
	p := &picker{options: options, query: q}
	p.refilter()
	return p
}

func (p *picker) refilter() {
	p.visible = matchOptions(p.options, p.query.Value())
	p.cursor = max(0, min(p.cursor, len(p.visible)-1))
}

// matchOptions returns the indices of options whose labels fuzzy-match
// query, closest first. An empty query keeps every option in order.
func matchOptions(options []liststate.Option, query string) []int {
	query = strings.TrimSpace(query)
	if query == "" {
		out := make([]int, len(options))
		for i := range options {
			out[i] = i
		}
		return out
	}

	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}
	ranks := fuzzy.RankFindFold(query, labels)
	sort.Sort(ranks)

	out := make([]int, len(ranks))
	for i, r := range ranks {
		out[i] = r.OriginalIndex
	}
	return out
}

func (p *picker) move(delta int) {
	if len(p.visible) == 0 {
		return
	}
	p.cursor = (p.cursor + delta + len(p.visible)) % len(p.visible)
}

// current returns the highlighted option.
func (p *picker) current() (liststate.Option, bool) {
	if p.cursor < 0 || p.cursor >= len(p.visible) {
		return liststate.Option{}, false
	}
	return p.options[p.visible[p.cursor]], true
}
