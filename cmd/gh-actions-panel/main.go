package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/kasli/gh-actions-panel/internal/api"
	"github.com/kasli/gh-actions-panel/internal/auth"
	"github.com/kasli/gh-actions-panel/internal/config"
	"github.com/kasli/gh-actions-panel/internal/session"
	"github.com/kasli/gh-actions-panel/internal/tui"
)

var version = "dev"

// OAuth app client id; override with GITHUB_CLIENT_ID. The app must have
// device flow enabled.
const defaultClientID = "Ov23liPanelDashboard"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	debugLog := flag.Bool("debug", false, "Write a debug log")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("gh-actions-panel", version)
		os.Exit(0)
	}

	if *debugLog {
		dir := filepath.Join(os.TempDir(), "gh-actions-panel")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetOutput(io.Discard)
	}

	clientID := os.Getenv("GITHUB_CLIENT_ID")
	if clientID == "" {
		clientID = defaultClientID
	}

	cfg := config.Load()
	flow := auth.NewFlow(auth.NewDeviceClient(clientID))
	store := session.NewStore(nil, cfg.SelectedRepo)

	authenticated := false
	if cfg.Token != "" {
		client, err := api.NewClient(cfg.Token)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		store.SetClient(client)
		authenticated = true
	}

	log.Debug("starting", "version", version, "authenticated", authenticated)

	app := tui.NewApp(flow, store, authenticated)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
