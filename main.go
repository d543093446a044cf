package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/osteele/pubadmin/internal/api"
	"github.com/osteele/pubadmin/internal/app"
	"github.com/osteele/pubadmin/internal/config"
	"github.com/osteele/pubadmin/internal/logging"
	"github.com/osteele/pubadmin/internal/ui"
)

var (
	baseURL  = flag.String("u", "", "Backend API base URL (overrides config)")
	view     = flag.String("v", "", "Screen to open first, e.g. topics or users")
	showHelp = flag.Bool("h", false, "Show help")
)

func main() {
	flag.StringVar(baseURL, "base-url", "", "Backend API base URL (overrides config)")
	flag.StringVar(view, "view", "", "Screen to open first, e.g. topics or users")
	flag.BoolVar(showHelp, "help", false, "Show help")
	flag.Parse()

	if *showHelp {
		fmt.Println("pubadmin - Terminal admin console for a scholarly publishing platform")
		fmt.Println()
		fmt.Println("Usage: pubadmin [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *view != "" {
		cfg.UI.DefaultView = *view
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer logCloser.Close()

	client, err := api.NewClient(api.Options{
		BaseURL:           cfg.API.BaseURL,
		Token:             cfg.API.Token,
		Timeout:           cfg.API.Timeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("invalid api settings: %w", err)
	}

	mainApp := app.NewApp(cfg, client, logger)
	defer mainApp.Close()

	model := ui.NewModel(ui.GetTheme(string(cfg.UI.Theme)), mainApp.Screens())
	if !model.SelectScreen(cfg.UI.DefaultView) {
		logger.Warn("unknown default view", "view", cfg.UI.DefaultView)
	}
	model.ConfirmDelete = cfg.Confirmations.Delete
	model.NotifyReorderFailure = cfg.Notifications.ReorderFailure
	model.ExportDir = cfg.Export.Dir
	model.OnDashboard = mainApp.Dashboard

	if expiry, ok := client.TokenExpiry(); ok && expiry.Before(time.Now()) {
		model.StatusMessage = &ui.StatusMessage{
			Type: ui.StatusWarning,
			Text: "API token expired at " + expiry.Format(time.DateTime) + "; requests may be rejected",
		}
	} else if cfg.API.Token == "" {
		model.StatusMessage = &ui.StatusMessage{Type: ui.StatusWarning, Text: "No API token configured"}
	}

	logger.Info("starting", "base_url", cfg.API.BaseURL, "view", cfg.UI.DefaultView)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("application error: %w", err)
	}

	return nil
}
