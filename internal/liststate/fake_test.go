package liststate

import (
	"context"
	"fmt"
	"sync"

	"github.com/osteele/pubadmin/internal/api"
)

type row struct {
	ID    string
	Order int
}

func rowID(r row) string { return r.ID }

func withOrder(r row, n int) row {
	r.Order = n
	return r
}

func ids(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

// fakeGateway serves a fixed collection and records list calls. A call can
// be held until released to simulate slow responses.
type fakeGateway struct {
	mu        sync.Mutex
	rows      []row
	calls     []api.ListParams
	listErr   error
	removeErr error
	removed   []string
	hold      map[int]chan struct{} // call index -> release
}

func newFakeGateway(n int) *fakeGateway {
	g := &fakeGateway{hold: map[int]chan struct{}{}}
	for i := 1; i <= n; i++ {
		g.rows = append(g.rows, row{ID: fmt.Sprintf("r%d", i), Order: i})
	}
	return g
}

func (g *fakeGateway) holdCall(index int) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.hold[index] = ch
	return ch
}

func (g *fakeGateway) List(ctx context.Context, p api.ListParams) (api.Page[row], error) {
	g.mu.Lock()
	index := len(g.calls)
	g.calls = append(g.calls, p)
	wait := g.hold[index]
	listErr := g.listErr
	rows := append([]row(nil), g.rows...)
	g.mu.Unlock()

	if wait != nil {
		select {
		case <-wait:
		case <-ctx.Done():
			return api.Page[row]{}, ctx.Err()
		}
	}
	if listErr != nil {
		return api.Page[row]{}, listErr
	}

	start := min(p.Offset, len(rows))
	end := min(p.Offset+p.Limit, len(rows))
	return api.Page[row]{Items: rows[start:end], TotalCount: len(rows)}, nil
}

func (g *fakeGateway) Remove(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.removeErr != nil {
		return g.removeErr
	}
	g.removed = append(g.removed, id)
	return nil
}

func (g *fakeGateway) lastCall() api.ListParams {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}
