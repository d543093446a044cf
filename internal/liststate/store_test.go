package liststate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/osteele/pubadmin/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(g *fakeGateway) *Store[row] {
	return New[row](g, rowID, Options{PageSize: 10, LoadFailure: "Failed to load rows"})
}

func TestStore_FetchSecondPage(t *testing.T) {
	g := newFakeGateway(25)
	s := newStore(g)
	require.NoError(t, s.Fetch(context.Background()))

	assert.Equal(t, 2, s.SetPage(2))
	require.NoError(t, s.Fetch(context.Background()))

	call := g.lastCall()
	assert.Equal(t, 10, call.Offset)
	assert.Equal(t, 10, call.Limit)

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 10)
	assert.Equal(t, "r11", snap.Items[0].ID)
	assert.Equal(t, 25, snap.TotalCount)
	assert.Equal(t, 3, snap.TotalPages)
	assert.False(t, snap.IsLoading)
}

func TestStore_SetPageClamps(t *testing.T) {
	g := newFakeGateway(25)
	s := newStore(g)

	// Before the first fetch there is a single notional page.
	assert.Equal(t, 1, s.SetPage(5))

	require.NoError(t, s.Fetch(context.Background()))
	tests := []struct {
		request, want int
	}{
		{0, 1},
		{-2, 1},
		{2, 2},
		{3, 3},
		{4, 3},
		{100, 3},
	}
	for _, tt := range tests {
		got := s.SetPage(tt.request)
		assert.Equal(t, tt.want, got, "SetPage(%d)", tt.request)
		meta := s.Meta()
		assert.GreaterOrEqual(t, meta.CurrentPage, 1)
		assert.LessOrEqual(t, meta.CurrentPage, max(1, meta.TotalPages))
	}
}

func TestStore_SetPageDoesNotFetch(t *testing.T) {
	g := newFakeGateway(25)
	s := newStore(g)
	require.NoError(t, s.Fetch(context.Background()))
	assert.False(t, s.NeedsFetch())

	s.SetPage(2)
	assert.Len(t, g.calls, 1)
	assert.True(t, s.NeedsFetch())

	require.NoError(t, s.Fetch(context.Background()))
	assert.False(t, s.NeedsFetch())
}

func TestStore_SetFiltersResetsPage(t *testing.T) {
	g := newFakeGateway(25)
	s := newStore(g)
	require.NoError(t, s.Fetch(context.Background()))
	s.SetPage(3)

	s.SetFilters(SetText("  ethics "))
	meta := s.Meta()
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, "ethics", meta.Filters.Text)
	assert.True(t, s.NeedsFetch())

	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, "ethics", g.lastCall().Text)
	assert.Equal(t, 0, g.lastCall().Offset)
}

func TestStore_EmptyPatchOnlyResetsPage(t *testing.T) {
	g := newFakeGateway(25)
	s := newStore(g)
	s.SetPage(1)
	require.NoError(t, s.Fetch(context.Background()))
	s.SetPage(2)
	require.NoError(t, s.Fetch(context.Background()))
	before := s.Snapshot()

	s.SetFilters(FilterPatch{})

	after := s.Snapshot()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.TotalCount, after.TotalCount)
	assert.Equal(t, before.Filters, after.Filters)
	assert.Equal(t, 1, after.CurrentPage)
}

func TestStore_FetchFailureKeepsRows(t *testing.T) {
	g := newFakeGateway(5)
	s := newStore(g)
	require.NoError(t, s.Fetch(context.Background()))

	g.listErr = &api.Error{Kind: api.KindServer, Message: "Database unavailable"}
	err := s.Fetch(context.Background())
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Len(t, snap.Items, 5)
	assert.Equal(t, 5, snap.TotalCount)
	assert.Equal(t, "Database unavailable", snap.Error)
	assert.False(t, snap.IsLoading)

	g.listErr = nil
	require.NoError(t, s.Fetch(context.Background()))
	assert.Empty(t, s.Meta().Error)
}

func TestStore_FetchFailureFallbackMessage(t *testing.T) {
	g := newFakeGateway(5)
	g.listErr = errors.New("")
	s := newStore(g)

	require.Error(t, s.Fetch(context.Background()))
	assert.Equal(t, "Failed to load rows", s.Meta().Error)
}

func TestStore_StaleResponseDiscarded(t *testing.T) {
	g := newFakeGateway(25)
	s := newStore(g)
	release := g.holdCall(0)

	slow := make(chan error, 1)
	go func() { slow <- s.Fetch(context.Background()) }()

	// Wait until the first request has been issued.
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return len(g.calls) == 1
	}, time.Second, time.Millisecond)

	s.SetPage(1)
	s.SetFilters(SetText("late"))
	g.mu.Lock()
	g.rows = g.rows[:3]
	g.mu.Unlock()
	require.NoError(t, s.Fetch(context.Background()))

	close(release)
	assert.ErrorIs(t, <-slow, ErrStale)

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.TotalCount, "the older response must not overwrite the newer one")
	assert.Equal(t, []string{"r1", "r2", "r3"}, ids(snap.Items))
	assert.False(t, snap.IsLoading)
}

func TestStore_ClosedStoreDropsLateResponse(t *testing.T) {
	g := newFakeGateway(5)
	s := newStore(g)
	release := g.holdCall(0)

	done := make(chan error, 1)
	go func() { done <- s.Fetch(context.Background()) }()
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return len(g.calls) == 1
	}, time.Second, time.Millisecond)

	s.Close()
	close(release)

	assert.ErrorIs(t, <-done, ErrStale)
	assert.Empty(t, s.Snapshot().Items)
	assert.ErrorIs(t, s.Fetch(context.Background()), ErrClosed)
	assert.False(t, s.NeedsFetch())
}

func TestStore_Delete(t *testing.T) {
	g := newFakeGateway(25)
	s := newStore(g)
	require.NoError(t, s.Fetch(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "r4"))

	snap := s.Snapshot()
	assert.Equal(t, 24, snap.TotalCount)
	assert.NotContains(t, ids(snap.Items), "r4")
	assert.Len(t, snap.Items, 9)
	assert.Equal(t, []string{"r4"}, g.removed)
	assert.Len(t, g.calls, 1, "delete must not refetch")
}

func TestStore_DeleteOnlyItemOfLastPage(t *testing.T) {
	g := newFakeGateway(21)
	s := newStore(g)
	require.NoError(t, s.Fetch(context.Background()))
	s.SetPage(3)
	require.NoError(t, s.Fetch(context.Background()))
	require.Len(t, s.Snapshot().Items, 1)

	require.NoError(t, s.Delete(context.Background(), "r21"))

	meta := s.Meta()
	assert.Equal(t, 20, meta.TotalCount)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Equal(t, 3, meta.CurrentPage, "store does not navigate away on its own")
}

func TestStore_DeleteKeepsTotalNonNegative(t *testing.T) {
	g := newFakeGateway(0)
	s := newStore(g)
	require.NoError(t, s.Fetch(context.Background()))

	require.NoError(t, s.Delete(context.Background(), "ghost"))
	assert.Equal(t, 0, s.Meta().TotalCount)
}

func TestStore_DeleteFailureLeavesState(t *testing.T) {
	g := newFakeGateway(5)
	s := newStore(g)
	require.NoError(t, s.Fetch(context.Background()))
	before := s.Snapshot()

	g.removeErr = &api.Error{Kind: api.KindServer, Message: "in use"}
	err := s.Delete(context.Background(), "r1")
	require.Error(t, err)

	after := s.Snapshot()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.TotalCount, after.TotalCount)
	assert.Equal(t, before.Version, after.Version)
	assert.Empty(t, after.Error, "delete failures are transient, not list errors")
}

func TestStore_ResetFilters(t *testing.T) {
	g := newFakeGateway(5)
	s := New[row](g, rowID, Options{PageSize: 10, Filters: Filters{Tab: "User"}})
	s.SetFilters(SetTab("Admin"))
	s.SetFilters(SetText("x"))

	s.ResetFilters()
	f := s.Filters()
	assert.Equal(t, "User", f.Tab)
	assert.Empty(t, f.Text)
}

func TestStore_RoleParamFromTab(t *testing.T) {
	g := newFakeGateway(5)
	s := newStore(g)
	s.SetFilters(SetTab(DuplicateTab))
	require.NoError(t, s.Fetch(context.Background()))
	assert.Equal(t, "isDuplicate", g.lastCall().Role)
}
