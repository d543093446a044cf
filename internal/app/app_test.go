package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/config"
	"github.com/osteele/pubadmin/internal/liststate"
)

// request is a call seen by the fake backend.
type request struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]any
}

type backend struct {
	mu       sync.Mutex
	requests []request
}

func (b *backend) find(method, path string) (request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return request{}, false
}

// newTestApp starts a fake backend and an App pointed at it. routes maps
// "METHOD /path" to a JSON body; unknown routes answer 404.
func newTestApp(t *testing.T, routes map[string]string) (*App, *backend) {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{Method: r.Method, Path: strings.TrimPrefix(r.URL.Path, "/api"), Query: r.URL.Query()}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &req.Body)
		}
		b.mu.Lock()
		b.requests = append(b.requests, req)
		b.mu.Unlock()

		body, ok := routes[r.Method+" "+req.Path]
		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"not found"}`)
			return
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Options{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	a := NewApp(config.DefaultConfig(), client, nil)
	t.Cleanup(a.Close)
	return a, b
}

const topicsPage = `{"data":{"list":[
	{"topicId":1,"name":"Ethics","minSelections":0,"maxSelections":2,"sortOrder":1},
	{"topicId":2,"name":"Law","minSelections":"1","maxSelections":"3","sortOrder":2},
	{"topicId":3,"name":"Medicine","sortOrder":3}
],"totalCount":3}}`

func TestNewApp_ScreenOrder(t *testing.T) {
	a, _ := newTestApp(t, nil)
	var names []string
	for _, s := range a.Screens() {
		names = append(names, s.Name())
	}
	want := "conferences journals topics subtopics tracks types users faqs contents"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("screens = %q, want %q", got, want)
	}
}

func TestNewApp_PageSizes(t *testing.T) {
	a, _ := newTestApp(t, nil)
	users, _ := a.Screen("users")
	topics, _ := a.Screen("topics")
	if got := users.Meta().PageSize; got != 20 {
		t.Errorf("users page size = %d, want 20", got)
	}
	if got := topics.Meta().PageSize; got != 10 {
		t.Errorf("topics page size = %d, want 10", got)
	}
	if got := users.Meta().Filters.Tab; got != "User" {
		t.Errorf("users tab = %q, want User", got)
	}
}

func TestScreen_FetchAndRows(t *testing.T) {
	a, b := newTestApp(t, map[string]string{"GET /topic/list": topicsPage})
	s, _ := a.Screen("topics")

	if !s.NeedsFetch() {
		t.Fatal("NeedsFetch() = false before the first fetch")
	}
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	rows := s.Rows()
	if len(rows) != 3 {
		t.Fatalf("len(Rows()) = %d, want 3", len(rows))
	}
	if got := strings.Join(rows[1], "|"); got != "2|Law|1|3" {
		t.Errorf("row 1 = %q, want 2|Law|1|3", got)
	}
	req, _ := b.find("GET", "/topic/list")
	if got := req.Query["limit"]; len(got) != 1 || got[0] != "10" {
		t.Errorf("limit = %v, want [10]", got)
	}
	if got := s.Describe(0); got != `topic "Ethics"` {
		t.Errorf("Describe(0) = %q", got)
	}
}

func TestScreen_FetchFailureSetsError(t *testing.T) {
	a, _ := newTestApp(t, nil)
	s, _ := a.Screen("tracks")
	// A 404 list is an empty page, not a failure.
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := s.Meta().Error; got != "" {
		t.Errorf("Meta().Error = %q, want empty", got)
	}
	if got := len(s.Rows()); got != 0 {
		t.Errorf("len(Rows()) = %d, want 0", got)
	}
}

func TestScreen_Delete(t *testing.T) {
	a, b := newTestApp(t, map[string]string{
		"GET /topic/list": topicsPage,
		"DELETE /topic/2": `{"message":"ok"}`,
	})
	s, _ := a.Screen("topics")
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	msg, err := s.Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if msg != `Deleted topic "Law"` {
		t.Errorf("Delete() = %q", msg)
	}
	if _, ok := b.find("DELETE", "/topic/2"); !ok {
		t.Error("no DELETE /topic/2 request")
	}
	if got := s.Meta().TotalCount; got != 2 {
		t.Errorf("TotalCount = %d, want 2", got)
	}
	if got := len(s.Rows()); got != 2 {
		t.Errorf("len(Rows()) = %d, want 2", got)
	}
}

func TestScreen_DeleteUnsupported(t *testing.T) {
	a, _ := newTestApp(t, map[string]string{
		"GET /journal/list": `{"data":{"list":[{"journalId":4,"title":"JISE"}],"totalCount":1}}`,
	})
	s, _ := a.Screen("journals")
	if s.Capabilities().Delete {
		t.Error("journals claim delete support")
	}
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if _, err := s.Delete(context.Background(), 0); err == nil {
		t.Error("Delete() error = nil, want unsupported")
	}
	if got := len(s.Rows()); got != 1 {
		t.Errorf("len(Rows()) = %d, want 1", got)
	}
}

func TestScreen_Reorder(t *testing.T) {
	a, b := newTestApp(t, map[string]string{
		"GET /topic/list":    topicsPage,
		"PUT /topic/reorder": `{"message":"ok"}`,
	})
	s, _ := a.Screen("topics")
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	r := s.Reorder()
	if r == nil {
		t.Fatal("Reorder() = nil for topics")
	}
	if err := r.Pick(0); err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	r.Step(2)
	if _, err := r.Drop(context.Background()); err != nil {
		t.Fatalf("Drop() error = %v", err)
	}

	var names []string
	for _, row := range s.Rows() {
		names = append(names, row[0]+":"+row[1])
	}
	if got := strings.Join(names, " "); got != "1:Law 2:Medicine 3:Ethics" {
		t.Errorf("rows after reorder = %q", got)
	}

	req, ok := b.find("PUT", "/topic/reorder")
	if !ok {
		t.Fatal("no reorder request")
	}
	if req.Body["type"] != "topic" {
		t.Errorf("type = %v, want topic", req.Body["type"])
	}
	items, _ := req.Body["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("items = %v", req.Body["items"])
	}
	first := items[0].(map[string]any)
	if first["_id"] != float64(2) || first["sortOrder"] != float64(1) {
		t.Errorf("items[0] = %v, want {_id:2 sortOrder:1}", first)
	}
}

func TestScreen_ReorderRollsBack(t *testing.T) {
	a, _ := newTestApp(t, map[string]string{"GET /topic/list": topicsPage})
	s, _ := a.Screen("topics")
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	r := s.Reorder()
	_ = r.Pick(2)
	r.Step(-2)
	if _, err := r.Drop(context.Background()); err == nil {
		t.Fatal("Drop() error = nil, want failure from missing route")
	}
	if got := s.Rows()[0][1]; got != "Ethics" {
		t.Errorf("first row after failed reorder = %q, want Ethics", got)
	}
	if r.State() != liststate.Idle {
		t.Errorf("State() = %v, want idle", r.State())
	}
}

func TestScreen_ReorderNeedsWholeSiblingList(t *testing.T) {
	a, _ := newTestApp(t, map[string]string{
		"GET /topic/list":     topicsPage,
		"GET /topic/sub/list": `{"data":{"list":[{"subTopicId":4,"topicId":1,"name":"Privacy","sortOrder":1}],"totalCount":1}}`,
	})
	ctx := context.Background()

	topics, _ := a.Screen("topics")
	topics.SetFilters(liststate.SetText("eth"))
	if err := topics.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if err := topics.Reorder().Pick(0); !errors.Is(err, liststate.ErrFiltered) {
		t.Errorf("Pick() on searched topics = %v, want ErrFiltered", err)
	}

	subs, _ := a.Screen("subtopics")
	if err := subs.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if err := subs.Reorder().Pick(0); !errors.Is(err, liststate.ErrUnscoped) {
		t.Errorf("Pick() on unscoped sub topics = %v, want ErrUnscoped", err)
	}

	subs.SetFilters(liststate.SetScope("1", "Ethics"))
	if err := subs.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if err := subs.Reorder().Pick(0); err != nil {
		t.Errorf("Pick() on one topic's sub topics = %v, want nil", err)
	}
}

func TestScreen_NotReorderable(t *testing.T) {
	a, _ := newTestApp(t, nil)
	s, _ := a.Screen("tracks")
	if s.Reorder() != nil {
		t.Error("Reorder() != nil for tracks")
	}
}

func TestScreen_DrillDown(t *testing.T) {
	a, b := newTestApp(t, map[string]string{
		"GET /topic/list":     topicsPage,
		"GET /topic/sub/list": `{"data":{"list":[],"totalCount":0}}`,
	})
	topics, _ := a.Screen("topics")
	if err := topics.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	target, patch, ok := topics.DrillDown(0)
	if !ok || target != "subtopics" {
		t.Fatalf("DrillDown(0) = %q, %v", target, ok)
	}
	subs, _ := a.Screen(target)
	subs.SetFilters(patch)
	if got := subs.Meta().Filters.ScopeLabel; got != "Ethics" {
		t.Errorf("ScopeLabel = %q, want Ethics", got)
	}
	if err := subs.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	req, _ := b.find("GET", "/topic/sub/list")
	if got := req.Query["journalId"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("journalId = %v, want [1]", got)
	}

	if _, _, ok := subs.DrillDown(0); ok {
		t.Error("sub topics drill down further")
	}
}

func TestScreen_UserToggleDuplicate(t *testing.T) {
	a, b := newTestApp(t, map[string]string{
		"GET /user/list":   `{"data":{"list":[{"userId":"u7","personalName":"Ada","isDuplicate":false}],"totalCount":1}}`,
		"PUT /user/update": `{"message":"ok"}`,
	})
	s, _ := a.Screen("users")
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	msg, err := s.Toggle(context.Background(), 0)
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if msg != `Marked "Ada" as duplicate` {
		t.Errorf("Toggle() = %q", msg)
	}
	req, ok := b.find("PUT", "/user/update")
	if !ok {
		t.Fatal("no update request")
	}
	if req.Body["userId"] != "u7" || req.Body["isDuplicate"] != true {
		t.Errorf("body = %v", req.Body)
	}
}

func TestScreen_UserTabsSendRole(t *testing.T) {
	a, b := newTestApp(t, map[string]string{"GET /user/list": `{"data":{"list":[],"totalCount":0}}`})
	s, _ := a.Screen("users")
	s.SetFilters(liststate.SetTab("Admin"))
	if err := s.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	req, _ := b.find("GET", "/user/list")
	if got := req.Query["role"]; len(got) != 1 || got[0] != "admin" {
		t.Errorf("role = %v, want [admin]", got)
	}
}

func TestScreen_ToggleUnsupported(t *testing.T) {
	a, _ := newTestApp(t, nil)
	s, _ := a.Screen("faqs")
	if _, err := s.Toggle(context.Background(), 0); err == nil {
		t.Error("Toggle() error = nil for faqs")
	}
}

func TestDashboard(t *testing.T) {
	a, b := newTestApp(t, map[string]string{
		"GET /dashboard/admin": `{"response":{"totalUsers":40,"activeUsers":30,"inactiveUsers":8,"deletedUsers":2,"totalJournal":5,"totalConference":7}}`,
		"GET /conference/list": `{"data":{"list":[{"conferenceId":1}],"totalCount":7}}`,
		"GET /topic/list":      `{"data":{"list":[],"totalCount":12}}`,
	})

	md, err := a.Dashboard(context.Background(), api.PeriodMonthly)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	for _, want := range []string{
		"# Dashboard (Monthly)",
		"| 40 | 30 | 8 | 2 | 5 | 7 |",
		"| Conferences | 7 |",
		"| Topics | 12 |",
		"| Tracks | 0 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("dashboard missing %q:\n%s", want, md)
		}
	}
	req, _ := b.find("GET", "/dashboard/admin")
	if got := req.Query["period"]; len(got) != 1 || got[0] != "monthly" {
		t.Errorf("period = %v, want [monthly]", got)
	}
	req, _ = b.find("GET", "/topic/list")
	if got := req.Query["limit"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("count limit = %v, want [1]", got)
	}
}

func TestDashboard_StatsFailure(t *testing.T) {
	a, _ := newTestApp(t, nil)
	if _, err := a.Dashboard(context.Background(), api.PeriodAll); err == nil {
		t.Error("Dashboard() error = nil, want failure")
	}
}

func TestOptionLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"honorary_fellow", "Honorary Fellow"},
		{"reviewer", "Reviewer"},
		{"UnverifiedAuthor", "UnverifiedAuthor"},
		{"Published All", "Published All"},
	}
	for _, tt := range tests {
		if got := optionLabel(tt.in); got != tt.want {
			t.Errorf("optionLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
