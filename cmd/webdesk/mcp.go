package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/webdesk/webdesk/internal/autosave"
	"github.com/webdesk/webdesk/internal/bus"
	"github.com/webdesk/webdesk/internal/config"
	"github.com/webdesk/webdesk/internal/desk"
	"github.com/webdesk/webdesk/internal/geometry"
	"github.com/webdesk/webdesk/internal/mcp"
	"github.com/webdesk/webdesk/internal/persist"
	"github.com/webdesk/webdesk/internal/runtimepath"
	"github.com/webdesk/webdesk/internal/session"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webdesk mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: webdesk mcp serve")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Start the MCP server on stdio with a live desktop session. Designed")
		fmt.Fprintln(os.Stdout, "to be invoked by MCP clients.")
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Stdout carries the MCP protocol; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	b := bus.New()
	store := desk.NewStore(desk.StoreConfig{
		Viewport:      geometry.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		Chrome:        geometry.Chrome{MenuBarHeight: cfg.Chrome.MenuBarHeight, DockHeight: cfg.Chrome.DockHeight},
		SnapThreshold: cfg.SnapThreshold,
		ZOrderCeiling: cfg.ZOrderCeiling,
	}, b)
	if cfg.Desktop.Wallpaper != "" {
		store.SetWallpaper(cfg.Desktop.Wallpaper)
	}
	if cfg.Desktop.Theme != "" || cfg.Desktop.AccentColor != "" {
		store.SetTheme(cfg.Desktop.Theme, cfg.Desktop.AccentColor)
	}

	sessions := session.NewManager(store, logger)

	files, err := persist.NewFileStore(cfg.SessionsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session store: %v\n", err)
		return 1
	}

	backends := []persist.Backend{files}
	if cfg.Autosave.Remote.Endpoint != "" {
		remote, err := persist.NewRemote(cfg.Autosave.Remote.Endpoint, time.Duration(cfg.Autosave.Remote.TimeoutSeconds)*time.Second)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to configure remote sync: %v\n", err)
			return 1
		}
		backends = append(backends, remote)
	}

	snapshot := func() ([]byte, error) {
		return json.Marshal(sessions.SerializeSystemState())
	}
	// Keep the runtime marker pointing at the session the server persists,
	// so other processes can tell which saved session is live.
	b.Subscribe(autosave.TopicSaved, func(bus.Event) {
		if err := runtimepath.RecordActiveSession(persist.CurrentSessionName); err != nil {
			logger.Warn("failed to record active session", "error", err)
		}
	})
	saver := autosave.New(snapshot, backends, b, nil, logger)
	if cfg.Autosave.GetEnabled() {
		saver.Enable(autosave.Options{
			Interval: cfg.Autosave.Interval(),
			Debounce: cfg.Autosave.DebounceWindow(),
			Topics:   desk.MutationTopics(),
		})
		defer saver.Disable()
	}

	// Start from the last autosaved session when one exists.
	var last session.State
	if err := files.Get(persist.CurrentSessionName, &last); err == nil {
		sessions.RestoreSystemState(last)
		if err := runtimepath.RecordActiveSession(persist.CurrentSessionName); err != nil {
			logger.Warn("failed to record active session", "error", err)
		}
	}

	server := mcp.NewServer(store, sessions, saver, files, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		return 1
	}
	return 0
}
