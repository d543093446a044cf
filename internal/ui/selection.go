package ui

// SelectionManager tracks the highlighted row of the visible page. The row
// count changes whenever a page loads, so every read clamps.
type SelectionManager struct {
	total         int
	selectedIndex int
}

// NewSelectionManager creates a new SelectionManager.
func NewSelectionManager() *SelectionManager {
	return &SelectionManager{}
}

// SetTotal updates the number of rows and clamps the selection.
func (sm *SelectionManager) SetTotal(total int) {
	sm.total = max(total, 0)
	switch {
	case sm.total == 0:
		sm.selectedIndex = 0
	case sm.selectedIndex >= sm.total:
		sm.selectedIndex = sm.total - 1
	}
}

// TotalItems returns the number of rows.
func (sm *SelectionManager) TotalItems() int {
	return sm.total
}

// RawIndex returns the raw selected index (for UI rendering).
func (sm *SelectionManager) RawIndex() int {
	return sm.selectedIndex
}

// Selected returns the selected row, or -1 when the page is empty.
func (sm *SelectionManager) Selected() int {
	if sm.total == 0 {
		return -1
	}
	return sm.selectedIndex
}

// SelectNext moves selection to the next row (wraps around).
func (sm *SelectionManager) SelectNext() {
	if sm.total > 0 {
		sm.selectedIndex = (sm.selectedIndex + 1) % sm.total
	}
}

// SelectPrevious moves selection to the previous row (wraps around).
func (sm *SelectionManager) SelectPrevious() {
	if sm.total > 0 {
		if sm.selectedIndex == 0 {
			sm.selectedIndex = sm.total - 1
		} else {
			sm.selectedIndex--
		}
	}
}

// SetIndex sets the selection directly, clamped to the rows.
func (sm *SelectionManager) SetIndex(index int) {
	if sm.total == 0 {
		sm.selectedIndex = 0
		return
	}
	sm.selectedIndex = max(0, min(index, sm.total-1))
}

// Reset selects the first row.
func (sm *SelectionManager) Reset() {
	sm.selectedIndex = 0
}

// Window returns the first row to draw so that the selection stays inside
// a viewport of height rows.
func (sm *SelectionManager) Window(height int) int {
	if height <= 0 || sm.selectedIndex < height {
		return 0
	}
	return sm.selectedIndex - height + 1
}
