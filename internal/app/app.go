// Package app wires the entity screens of pubadmin to the backend.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/config"
	"github.com/osteele/pubadmin/internal/liststate"
	"github.com/osteele/pubadmin/internal/logging"
	"github.com/osteele/pubadmin/internal/ui"
	"golang.org/x/sync/errgroup"
)

// entityScreen is a screen that can also report its unfiltered total.
type entityScreen interface {
	ui.Screen
	count(ctx context.Context) (int, error)
	close()
}

// App holds the configured client and one screen per entity.
type App struct {
	Config *config.Config
	Client *api.Client
	Logger *slog.Logger

	screens []entityScreen
}

// NewApp creates the screens. Each screen owns its own list store.
func NewApp(cfg *config.Config, client *api.Client, logger *slog.Logger) *App {
	logger = logging.OrDiscard(logger)
	opts := liststate.Options{PageSize: cfg.Pagination.PageSize}

	a := &App{Config: cfg, Client: client, Logger: logger}
	a.screens = []entityScreen{
		newScreen(conferenceBinding(), client, opts, logger),
		newScreen(journalBinding(), client, opts, logger),
		newScreen(topicBinding(), client, opts, logger),
		newScreen(subTopicBinding(), client, opts, logger),
		newScreen(trackBinding(), client, opts, logger),
		newScreen(articleTypeBinding(), client, opts, logger),
		newScreen(userBinding(cfg.Pagination.UserPageSize), client, opts, logger),
		newScreen(faqBinding(), client, opts, logger),
		newScreen(contentBinding(), client, opts, logger),
	}
	return a
}

// Screens returns the screens in tab order.
func (a *App) Screens() []ui.Screen {
	out := make([]ui.Screen, len(a.screens))
	for i, s := range a.screens {
		out[i] = s
	}
	return out
}

// Screen finds a screen by name.
func (a *App) Screen(name string) (ui.Screen, bool) {
	s, ok := a.screenByName(name)
	if !ok {
		return nil, false
	}
	return s, true
}

// Close detaches every store so late responses are dropped.
func (a *App) Close() {
	for _, s := range a.screens {
		s.close()
	}
}

// dashboardCounts are the screens whose totals appear on the dashboard.
var dashboardCounts = []string{
	api.Conferences.Name, api.Journals.Name, api.Topics.Name,
	api.Tracks.Name, api.ArticleTypes.Name, api.Users.Name,
}

// Dashboard loads the platform statistics for period together with the
// per-entity totals and renders them as markdown. Totals that fail to load
// are shown as unavailable; a failure of the statistics call is returned.
func (a *App) Dashboard(ctx context.Context, period string) (string, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	var stats api.DashboardStats
	g.Go(func() error {
		var err error
		stats, err = a.Client.Dashboard(ctx, period)
		return err
	})

	totals := make([]string, len(dashboardCounts))
	for i, name := range dashboardCounts {
		g.Go(func() error {
			s, ok := a.screenByName(name)
			if !ok {
				totals[i] = "n/a"
				return nil
			}
			n, err := s.count(ctx)
			if err != nil {
				a.Logger.Warn("dashboard count failed", "screen", name, "error", err)
				totals[i] = "n/a"
				return nil
			}
			totals[i] = fmt.Sprint(n)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}
	return dashboardMarkdown(period, stats, totals), nil
}

func (a *App) screenByName(name string) (entityScreen, bool) {
	for _, s := range a.screens {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

func dashboardMarkdown(period string, stats api.DashboardStats, totals []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Dashboard (%s)\n\n", optionLabel(period))

	b.WriteString("| Users | Active | Inactive | Deleted | Journals | Conferences |\n")
	b.WriteString("|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n",
		stats.TotalUsers, stats.ActiveUsers, stats.InactiveUsers,
		stats.DeletedUsers, stats.TotalJournal, stats.TotalConference)

	b.WriteString("## Records\n\n")
	b.WriteString("| Entity | Total |\n|---|---:|\n")
	for i, name := range dashboardCounts {
		label := name
		if r, ok := api.ResourceByName(name); ok {
			label = r.Label
		}
		fmt.Fprintf(&b, "| %s | %s |\n", label, totals[i])
	}
	return b.String()
}
