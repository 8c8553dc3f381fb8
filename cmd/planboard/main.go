package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/planboard/internal/app"
	"github.com/nhle/planboard/internal/credential"
	"github.com/nhle/planboard/internal/model"
	"github.com/nhle/planboard/internal/remote"
	"github.com/nhle/planboard/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}
	if cfg.Remote.BaseURL == "" {
		return fmt.Errorf("no remote.base_url configured in %s", model.DefaultConfigPath())
	}

	token := loadToken()

	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath = model.DefaultCachePath()
	}
	cache, err := store.NewSQLiteStore(cachePath)
	if err != nil {
		return fmt.Errorf("opening cache %s: %w", cachePath, err)
	}
	defer cache.Close()

	// The terminal owns stdout; keep log output out of the UI.
	logFile, err := os.OpenFile(
		cachePath+".log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	client := remote.NewRESTClient(cfg.Remote.BaseURL, token)

	p := tea.NewProgram(
		app.New(cfg, client, cache),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// loadToken resolves the API token from the environment or the system
// keyring. An empty token means unauthenticated access.
func loadToken() string {
	if token := os.Getenv("PLANBOARD_TOKEN"); token != "" {
		return token
	}
	token, err := credential.Get("api-token")
	if err != nil {
		return ""
	}
	return token
}
