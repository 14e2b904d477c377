package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"smallworld/internal/engine"
	"smallworld/internal/handler"
	"smallworld/internal/hub"
	"smallworld/internal/loader"
	"smallworld/internal/render"
	"smallworld/internal/repository"
	"smallworld/internal/repository/sqlite"
	"smallworld/internal/watcher"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <topology-file>",
	Short: "Serve an interactive view of a topology snapshot",
	Long: `serve runs the layout engine continuously and exposes it over HTTP:
frames and positions via REST, a live frame stream plus pointer/zoom/select
input over websocket. The topology file is watched and hot-reloaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

// frameEvent and selectionEvent are the outbound websocket envelopes.
type frameEvent struct {
	Type  string       `json:"type"`
	Frame render.Frame `json:"frame"`
}

type selectionEvent struct {
	Type   string  `json:"type"`
	NodeID *string `json:"node_id"`
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	topologyPath := args[0]

	log.Println("Starting smallworld server...")

	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	view := engine.NewView(engine.Options{
		Width:     cfg.Viewport.Width,
		Height:    cfg.Viewport.Height,
		FrameRate: cfg.Engine.FrameRate,
		Solver:    cfg.Solver,
	})

	if err := reloadTopology(view, topologyPath); err != nil {
		return err
	}
	if n, err := handler.Restore(cmd.Context(), view, repo); err != nil {
		log.Printf("Failed to restore positions: %v", err)
	} else if n > 0 {
		log.Printf("Restored %d persisted positions", n)
	}

	wsHub := hub.New(func(data []byte) {
		handler.Dispatch(view, data)
	})
	go wsHub.Run()

	view.OnFrame(func(frame render.Frame) {
		if wsHub.ClientCount() > 0 {
			wsHub.Broadcast(frameEvent{Type: "frame", Frame: frame})
		}
	})
	view.OnSelectionChange(func(id string, ok bool) {
		ev := selectionEvent{Type: "selection"}
		if ok {
			ev.NodeID = &id
		}
		wsHub.Broadcast(ev)
	})

	view.Start()
	defer view.Stop()

	// Hot-reload the topology file; node positions survive the swap.
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	w := watcher.New(topologyPath, func() {
		if err := reloadTopology(view, topologyPath); err != nil {
			log.Printf("Topology reload failed: %v", err)
		} else {
			log.Printf("Topology reloaded from %s", topologyPath)
		}
	})
	go func() {
		if err := w.Watch(watchCtx); err != nil && err != context.Canceled {
			log.Printf("Watcher stopped: %v", err)
		}
	}()

	viewHandler := handler.NewViewHandler(view, repo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/graph", viewHandler.GetFrame)
	mux.HandleFunc("GET /api/state", viewHandler.GetState)
	mux.HandleFunc("GET /api/positions", viewHandler.GetPositions)
	mux.HandleFunc("POST /api/positions", viewHandler.SavePositions)
	mux.HandleFunc("POST /api/positions/restore", viewHandler.RestorePositions)
	mux.Handle("GET /ws", wsHub)

	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Persist the layout so the next run resumes where this one froze.
	if err := persistPositions(view, repo); err != nil {
		log.Printf("Failed to persist positions: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

func reloadTopology(view *engine.View, path string) error {
	snap, err := loader.LoadFile(path)
	if err != nil {
		return err
	}
	view.SetTopology(snap.Graph())
	return nil
}

func persistPositions(view *engine.View, repo repository.Repository) error {
	positions := view.Positions()
	records := make([]repository.Position, 0, len(positions))
	for id, pos := range positions {
		records = append(records, repository.Position{NodeID: id, X: pos.X, Y: pos.Y})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return repo.SavePositions(ctx, records)
}
