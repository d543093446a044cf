package pagination

import (
	"strings"
	"testing"
)

func render(slots []Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{"no pages", 1, 0, ""},
		{"single page", 1, 1, "1"},
		{"five pages first", 1, 5, "1 2 3 4 5"},
		{"five pages last", 5, 5, "1 2 3 4 5"},
		{"seven pages middle", 4, 7, "1 2 3 4 5 6 7"},
		{"ten pages start", 1, 10, "1 2 3 4 … 10"},
		{"ten pages third", 3, 10, "1 2 3 4 … 10"},
		{"ten pages end", 10, 10, "1 … 7 8 9 10"},
		{"ten pages eighth", 8, 10, "1 … 7 8 9 10"},
		{"ten pages middle", 5, 10, "1 … 4 5 6 … 10"},
		{"eight pages fourth", 4, 8, "1 … 3 4 5 … 8"},
		{"eight pages fifth", 5, 8, "1 … 4 5 6 … 8"},
		{"eight pages sixth", 6, 8, "1 … 5 6 7 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(Window(tt.current, tt.total))
			if got != tt.want {
				t.Errorf("Window(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.want)
			}
		})
	}
}

func TestWindow_Bounds(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			slots := Window(current, total)
			if len(slots) > 7 {
				t.Fatalf("Window(%d, %d) has %d slots", current, total, len(slots))
			}
			if slots[0].Page != 1 || slots[len(slots)-1].Page != total {
				t.Fatalf("Window(%d, %d) = %q, want anchored at 1 and %d", current, total, render(slots), total)
			}
			found := false
			for _, s := range slots {
				found = found || s.Page == current
			}
			if !found {
				t.Fatalf("Window(%d, %d) = %q omits the current page", current, total, render(slots))
			}
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{24, 10, 3},
		{40, 20, 2},
		{5, 0, 0},
		{-3, 10, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		page, total, want int
	}{
		{0, 3, 1},
		{-4, 3, 1},
		{2, 3, 2},
		{3, 3, 3},
		{9, 3, 3},
		{5, 0, 1},
		{1, 0, 1},
	}

	for _, tt := range tests {
		if got := Clamp(tt.page, tt.total); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tt.page, tt.total, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(2, 10); got != 10 {
		t.Errorf("Offset(2, 10) = %d, want 10", got)
	}
	if got := Offset(1, 20); got != 0 {
		t.Errorf("Offset(1, 20) = %d, want 0", got)
	}
	if got := Offset(0, 10); got != 0 {
		t.Errorf("Offset(0, 10) = %d, want 0", got)
	}
}
