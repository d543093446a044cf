package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/liststate"
	"github.com/osteele/pubadmin/internal/pagination"
)

const (
	headerHeight = 3
	statusHeight = 3
	helpHeight   = 3

	// listTop is the screen line of the first table row: the header box,
	// the list border, the list title and the column header come first.
	listTop = headerHeight + 3

	cellGap = "  "
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return "Loading..."
	}
	if len(m.Screens) == 0 {
		return "No screens configured"
	}

	listHeight := m.Height - headerHeight - statusHeight - helpHeight

	mainView := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderList(listHeight),
		m.renderStatus(),
		m.renderHelp(),
	)

	if m.ActiveModal != ModalNone {
		mainView = m.overlayModal(mainView, m.renderModal())
	}
	return mainView
}

// listRows is the number of table rows that fit in the list box.
func (m Model) listRows() int {
	listHeight := m.Height - headerHeight - statusHeight - helpHeight
	// border (2), title, column header, page strip
	return max(listHeight-5, 1)
}

func (m Model) renderHeader() string {
	parts := []string{m.Theme.HeaderTitle.Render("pubadmin")}
	for i, s := range m.Screens {
		label := fmt.Sprintf("%d %s", i+1, s.Title())
		if i == m.Active {
			parts = append(parts, m.Theme.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.Theme.Tab.Render(label))
		}
	}
	line := truncateLine(strings.Join(parts, " "), m.Width-4)
	return m.Theme.Header.Width(m.Width - 2).Render(line)
}

func (m Model) renderList(height int) string {
	s := m.current()
	meta := s.Meta()
	contentWidth := max(m.Width-4, 20)

	title := m.Theme.ListTitle.Render(fmt.Sprintf(" %s (%d) ", s.Title(), meta.TotalCount))
	if tabs := s.Tabs(); len(tabs) > 0 {
		title += " " + m.renderTabs(tabs, meta.Filters.Tab)
	}
	if summary := filterSummary(meta.Filters, s.TypeOptions()); summary != "" {
		title += " " + m.Theme.ListFilter.Render(summary)
	}
	if m.searching {
		title += "  " + m.search.View()
	}

	cols := s.Columns()
	widths := fitColumns(cols, contentWidth-2)
	headerCells := make([]string, len(cols))
	for i, c := range cols {
		headerCells[i] = c.Title
	}
	colHeader := "  " + m.Theme.ColumnHeader.Render(formatRow(headerCells, widths))

	rowsHeight := m.listRows()
	rows := s.Rows()
	picked := -1
	if r := s.Reorder(); r != nil && r.State() == liststate.Dragging {
		picked = r.Picked()
	}

	var lines []string
	if len(rows) == 0 {
		empty := "No " + strings.ToLower(s.Title()) + " found"
		if m.IsLoading {
			empty = "Loading..."
		}
		lines = append(lines, m.Theme.Muted.Render("  "+empty))
	}
	start := m.Selection.Window(rowsHeight)
	for i := start; i < len(rows) && i < start+rowsHeight; i++ {
		marker := "  "
		if i == picked {
			marker = "↕ "
		}
		line := marker + formatRow(rows[i], widths)
		switch {
		case i == picked:
			line = m.Theme.PickedItem.Width(contentWidth).Render(line)
		case i == m.Selection.RawIndex():
			line = m.Theme.SelectedItem.Width(contentWidth).Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < rowsHeight {
		lines = append(lines, "")
	}
	if len(lines) > rowsHeight {
		lines = lines[:rowsHeight]
	}

	content := truncateLine(title, contentWidth) + "\n" +
		truncateLine(colHeader, contentWidth) + "\n" +
		strings.Join(lines, "\n") + "\n" +
		m.renderPages(meta)

	return m.Theme.ListBorder.
		Width(m.Width - 2).
		Height(height - 2).
		Render(content)
}

func (m Model) renderTabs(tabs []string, active string) string {
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if t == active {
			parts[i] = m.Theme.ActiveTab.Render(t)
		} else {
			parts[i] = m.Theme.Tab.Render(t)
		}
	}
	return strings.Join(parts, "")
}

// renderPages draws the page strip, e.g. "‹ 1 … 4 5 6 … 12 ›".
func (m Model) renderPages(meta liststate.Meta) string {
	if meta.TotalPages <= 1 {
		return ""
	}
	parts := []string{m.Theme.Muted.Render("‹")}
	for _, slot := range pagination.Window(meta.CurrentPage, meta.TotalPages) {
		switch {
		case slot.IsEllipsis():
			parts = append(parts, m.Theme.Muted.Render(slot.String()))
		case slot.Page == meta.CurrentPage:
			parts = append(parts, m.Theme.PageCurrent.Render(slot.String()))
		default:
			parts = append(parts, m.Theme.Page.Render(slot.String()))
		}
	}
	parts = append(parts, m.Theme.Muted.Render("›"))
	return "  " + strings.Join(parts, " ")
}

// filterSummary describes the active filters for the list title.
func filterSummary(f liststate.Filters, options []liststate.Option) string {
	var parts []string
	if f.Scope != "" {
		label := f.ScopeLabel
		if label == "" {
			label = "#" + f.Scope
		}
		parts = append(parts, "in "+label)
	}
	if f.Text != "" {
		parts = append(parts, fmt.Sprintf("matching %q", f.Text))
	}
	if len(f.Types) > 0 {
		labels := make([]string, len(f.Types))
		for i, t := range f.Types {
			labels[i] = optionLabel(options, t)
		}
		parts = append(parts, "types: "+strings.Join(labels, ", "))
	}
	return strings.Join(parts, " · ")
}

func optionLabel(options []liststate.Option, value string) string {
	for _, o := range options {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// fitColumns returns column widths that fit in width, shrinking the widest
// column first.
func fitColumns(cols []Column, width int) []int {
	widths := make([]int, len(cols))
	total := len(cellGap) * max(len(cols)-1, 0)
	for i, c := range cols {
		widths[i] = max(c.Width, 1)
		total += widths[i]
	}
	for total > width {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= 3 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

// formatRow lays cells out in fixed-width columns.
func formatRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, w := range widths {
		if i > 0 {
			b.WriteString(cellGap)
		}
		cell := ""
		if i < len(cells) {
			cell = strings.ReplaceAll(cells[i], "\n", " ")
		}
		cell = truncateLine(cell, w)
		b.WriteString(cell)
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", max(w-lipgloss.Width(cell), 0)))
		}
	}
	return b.String()
}

func (m Model) renderStatus() string {
	var text string
	style := m.Theme.StatusMessage
	meta := m.current().Meta()

	if m.IsLoading {
		text = m.spinner.View() + " " + m.LoadingText
	} else if m.StatusMessage != nil {
		text = m.StatusMessage.Text
		switch m.StatusMessage.Type {
		case StatusWarning:
			style = m.Theme.StatusWarning
		case StatusError:
			style = m.Theme.StatusError
		}
	} else if meta.Error != "" {
		text = "⚠ " + meta.Error
		style = m.Theme.StatusError
	} else {
		text = "Ready"
	}

	if r := m.current().Reorder(); r != nil && r.State() != liststate.Idle {
		text += " | " + r.State().String()
	}
	if meta.TotalPages > 0 {
		text += fmt.Sprintf(" | Page %d of %d", meta.CurrentPage, meta.TotalPages)
	}

	return m.Theme.StatusBar.Width(m.Width - 2).Render(truncateLine(style.Render(text), m.Width-4))
}

func (m Model) renderHelp() string {
	s := m.current()
	caps := s.Capabilities()
	k := m.Theme.HelpKey.Render

	var items []string
	if r := s.Reorder(); r != nil && r.State() == liststate.Dragging {
		items = append(items,
			k("↑/↓/j/k")+" Move",
			k("↵/m")+" Drop",
			k("esc")+" Cancel",
		)
	} else {
		items = append(items,
			k("↑/↓")+" Nav",
			k("←/→")+" Page",
			k("tab")+" Screen",
			k("/")+" Search",
		)
		if len(s.TypeOptions()) > 0 {
			items = append(items, k("f")+" Filter")
		}
		if len(s.Tabs()) > 0 {
			items = append(items, k("[/]")+" Tab")
		}
		if caps.Create {
			items = append(items, k("n")+" New")
		}
		if caps.Edit {
			items = append(items, k("e")+" Edit")
		}
		if caps.Delete {
			items = append(items, k("d")+" Delete")
		}
		if caps.Reorder {
			items = append(items, k("m")+" Move")
		}
		if caps.Toggle != "" {
			items = append(items, k("u")+" "+capitalize(caps.Toggle))
		}
		if caps.DrillDown != "" {
			items = append(items, k("↵")+" Open")
		}
		items = append(items,
			k("i")+" Details",
			k("?")+" Help",
			k("q")+" Quit",
		)
	}

	sep := m.Theme.HelpSep.Render(" | ")
	return m.Theme.HelpBar.Width(m.Width - 2).Render(truncateLine(strings.Join(items, sep), m.Width-4))
}

func (m Model) renderModal() string {
	switch m.ActiveModal {
	case ModalHelp:
		return m.renderHelpModal()
	case ModalConfirmDelete:
		return m.renderConfirmModal()
	case ModalDetail:
		return m.renderDetailModal()
	case ModalDashboard:
		return m.renderDashboardModal()
	case ModalPicker:
		return m.renderPickerModal()
	}
	return ""
}

func (m Model) renderHelpModal() string {
	content := m.Theme.ModalTitle.Render("NAVIGATION") + "\n"
	content += "  ↑/k, ↓/j        Move selection up/down\n"
	content += "  ←/h, →/l        Previous/next page\n"
	content += "  g, G            First/last page\n"
	content += "  Tab, Shift-Tab  Next/previous screen\n"
	content += "  1-9             Go to screen\n"
	content += "  [, ]            Previous/next user tab\n"
	content += "  ↵               Open sub topics of a topic\n"
	content += "\n"
	content += m.Theme.ModalTitle.Render("FILTERS") + "\n"
	content += "  /               Search\n"
	content += "  f               Filter by type\n"
	content += "  x               Clear all filters\n"
	content += "\n"
	content += m.Theme.ModalTitle.Render("ROW ACTIONS") + "\n"
	content += "  n               New entry in $EDITOR\n"
	content += "  e               Edit entry in $EDITOR\n"
	content += "  d               Delete entry\n"
	content += "  i               Show details\n"
	content += "  u               Toggle duplicate flag (users)\n"
	content += "  m               Move row, then ↑/↓ and ↵ to save\n"
	content += "\n"
	content += m.Theme.ModalTitle.Render("GLOBAL ACTIONS") + "\n"
	content += "  r               Reload the list\n"
	content += "  E               Export the page as CSV\n"
	content += "  D               Dashboard\n"
	content += "  q, Ctrl-C       Quit application\n"
	content += "  ?               Toggle this help screen\n"
	content += "\n"
	content += m.Theme.ModalHelp.Render("Press ? or Esc to close")

	return m.Theme.ModalBorder.Render(
		m.Theme.ModalTitle.Render(" pubadmin - Keyboard Commands ") + "\n\n" + content,
	)
}

func (m Model) renderConfirmModal() string {
	desc := "this row"
	if m.pendingDelete >= 0 {
		desc = m.current().Describe(m.pendingDelete)
	}
	content := m.Theme.ModalDanger.Render("Delete "+desc+"?") + "\n\n" +
		"This cannot be undone.\n\n" +
		m.Theme.ModalHelp.Render("Press y to delete, any other key to keep it")
	return m.Theme.ModalBorder.Render(m.Theme.ModalTitle.Render(" Confirm ") + "\n\n" + content)
}

func (m Model) renderDetailModal() string {
	width := m.modalWidth()
	body := renderMarkdown(m.detail, m.Theme.Markdown, width)
	body = clipLines(body, m.Height-8)
	return m.Theme.ModalBorder.Render(
		m.Theme.ModalTitle.Render(" Details ") + "\n\n" + body + "\n\n" +
			m.Theme.ModalHelp.Render("Press Esc or 'i' to close"),
	)
}

func (m Model) renderDashboardModal() string {
	periods := make([]string, len(api.Periods))
	for i, p := range api.Periods {
		if i == m.period {
			periods[i] = m.Theme.ActiveTab.Render(capitalize(p))
		} else {
			periods[i] = m.Theme.Tab.Render(capitalize(p))
		}
	}

	body := m.Theme.Muted.Render("Loading...")
	if m.dashboard != "" {
		body = renderMarkdown(m.dashboard, m.Theme.Markdown, m.modalWidth())
	}
	body = clipLines(body, m.Height-10)
	return m.Theme.ModalBorder.Render(
		m.Theme.ModalTitle.Render(" Dashboard ") + "\n\n" +
			strings.Join(periods, "") + "\n\n" + body + "\n\n" +
			m.Theme.ModalHelp.Render("Press 'p' to change period, Esc or 'D' to close"),
	)
}

func (m Model) renderPickerModal() string {
	p := m.picker
	if p == nil {
		return ""
	}
	filters := m.current().Meta().Filters

	var b strings.Builder
	b.WriteString(p.query.View() + "\n\n")
	height := max(m.Height-14, 3)
	start := 0
	if p.cursor >= height {
		start = p.cursor - height + 1
	}
	if len(p.visible) == 0 {
		b.WriteString(m.Theme.Muted.Render("  No matching types") + "\n")
	}
	for i := start; i < len(p.visible) && i < start+height; i++ {
		opt := p.options[p.visible[i]]
		check := "[ ]"
		if filters.HasType(opt.Value) {
			check = "[x]"
		}
		line := check + " " + opt.Label
		if i == p.cursor {
			line = m.Theme.SelectedItem.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.Theme.ModalHelp.Render("↵ toggle · ctrl+x clear · esc close"))

	return m.Theme.ModalBorder.Render(
		m.Theme.ModalTitle.Render(" Filter by type ") + "\n\n" + b.String(),
	)
}

func (m Model) modalWidth() int {
	return max(min(m.Width-12, 100), 20)
}

func (m Model) overlayModal(base, modal string) string {
	// Center the modal on the screen
	modalLines := strings.Split(modal, "\n")
	modalHeight := len(modalLines)
	modalWidth := 0
	for _, line := range modalLines {
		if lipgloss.Width(line) > modalWidth {
			modalWidth = lipgloss.Width(line)
		}
	}

	x := max((m.Width-modalWidth)/2, 0)
	y := max((m.Height-modalHeight)/2, 0)

	baseLines := strings.Split(base, "\n")
	prefix := strings.Repeat(" ", x)
	for i := 0; i < modalHeight && y+i < len(baseLines); i++ {
		baseLines[y+i] = prefix + modalLines[i]
	}
	return strings.Join(baseLines, "\n")
}

// Helper functions

func clipLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n < 1 || len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n-1], "\n") + "\n…"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncateLine truncates a line to fit within maxWidth, accounting for ANSI codes.
// Adds ellipsis (…) when truncation occurs.
func truncateLine(line string, maxWidth int) string {
	width := lipgloss.Width(line)
	if width <= maxWidth {
		return line
	}

	// Need to truncate - leave room for ellipsis
	targetWidth := maxWidth - 1 // Reserve 1 char for …
	if targetWidth < 1 {
		return "…"
	}

	// Find truncation point
	runes := []rune(line)
	for i := len(runes) - 1; i >= 0; i-- {
		truncated := string(runes[:i])
		if lipgloss.Width(truncated) <= targetWidth {
			return truncated + "…"
		}
	}
	return "…"
}
