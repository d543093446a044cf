// Package pagination derives page counts and the compressed page-number
// strip shown under each list.
package pagination

import "strconv"

// maxSlots is the widest strip Window ever returns.
const maxSlots = 7

// TotalPages returns ceil(total/size). It is 0 when there is nothing to show.
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Clamp bounds page to [1, max(1, totalPages)].
func Clamp(page, totalPages int) int {
	upper := totalPages
	if upper < 1 {
		upper = 1
	}
	switch {
	case page < 1:
		return 1
	case page > upper:
		return upper
	}
	return page
}

// Offset returns the index of the first row on page.
func Offset(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}
	return (page - 1) * size
}

// Slot is one entry of the page strip: a page number or an ellipsis.
type Slot struct {
	Page int // 0 for an ellipsis
}

// Ellipsis is the gap marker.
var Ellipsis = Slot{}

// IsEllipsis reports whether the slot stands for skipped pages.
func (s Slot) IsEllipsis() bool { return s.Page == 0 }

func (s Slot) String() string {
	if s.IsEllipsis() {
		return "…"
	}
	return strconv.Itoa(s.Page)
}

// Window returns the page strip for current within totalPages. The first and
// last pages are always present and the strip never exceeds seven slots.
func Window(current, totalPages int) []Slot {
	if totalPages <= 0 {
		return nil
	}
	if totalPages <= maxSlots {
		return pages(1, totalPages)
	}

	last := Slot{Page: totalPages}
	switch {
	case current <= 3:
		return append(pages(1, 4), Ellipsis, last)
	case current >= totalPages-2:
		return append([]Slot{{Page: 1}, Ellipsis}, pages(totalPages-3, totalPages)...)
	default:
		strip := append([]Slot{{Page: 1}, Ellipsis}, pages(current-1, current+1)...)
		return append(strip, Ellipsis, last)
	}
}

func pages(from, to int) []Slot {
	slots := make([]Slot, 0, to-from+1)
	for p := from; p <= to; p++ {
		slots = append(slots, Slot{Page: p})
	}
	return slots
}
