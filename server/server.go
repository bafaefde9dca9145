package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sounddeck/cache"
	"sounddeck/config"
	"sounddeck/core/auth"
	"sounddeck/core/deck"
	"sounddeck/core/ingest"
	"sounddeck/core/player"
	"sounddeck/db"
	"sounddeck/logger"
	"sounddeck/repository"
	"sounddeck/storage"

	"github.com/gorilla/mux"
)

// Start wires the full application together and serves until interrupted.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	auth.SetSecret(cfg.JWTSecret)

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("database connection failed", logger.ErrorField(err))
	}
	if err := db.InitDB(); err != nil {
		logger.Fatal("database migration failed", logger.ErrorField(err))
	}
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Fatal("redis connection failed", logger.ErrorField(err))
	}
	if err := storage.InitMinio(); err != nil {
		logger.Fatal("minio initialization failed", logger.ErrorField(err))
	}

	clipRepo := repository.NewMySQLClipRepository(db.DB)
	playlistRepo := repository.NewMySQLPlaylistRepository(db.DB)
	hotkeyRepo := repository.NewMySQLHotkeyRepository(db.DB)
	userRepo := repository.NewMySQLUserRepository(db.DB)

	d := deck.New(cfg.HotkeyBanks, cfg.HotkeySlots)
	output := player.NewBeepOutput(func(handle string) (io.ReadCloser, error) {
		return storage.FetchClip(context.Background(), handle)
	}, cfg.TempDir)
	engine := player.NewEngine(output)
	co := player.NewCoordinator(d, engine)

	rehydrate(co, clipRepo, playlistRepo, hotkeyRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go co.Run(ctx)
	go persistSnapshots(ctx, co)

	importer := ingest.NewImporter(co, clipRepo, cfg.TempDir)
	if cfg.ImportWatchDir != "" {
		watcher := ingest.NewWatcher(importer, cfg.ImportWatchDir)
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("import watcher stopped", logger.ErrorField(err))
			}
		}()
	}

	h := NewAPIHandler(clipRepo, playlistRepo, hotkeyRepo, userRepo, co, importer, cfg)
	router := newRouter(h)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      corsMiddleware(router),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server listening", logger.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", logger.ErrorField(err))
	}

	cancel()
	if err := output.Close(); err != nil {
		logger.Warn("audio output close failed", logger.ErrorField(err))
	}
	if err := cache.CloseRedis(); err != nil {
		logger.Warn("redis close failed", logger.ErrorField(err))
	}
	if err := db.CloseDB(); err != nil {
		logger.Warn("database close failed", logger.ErrorField(err))
	}
}

// rehydrate loads persisted library state into the coordinator.
func rehydrate(
	co *player.Coordinator,
	clipRepo repository.ClipRepository,
	playlistRepo repository.PlaylistRepository,
	hotkeyRepo repository.HotkeyRepository,
) {
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer loadCancel()

	clips, err := clipRepo.GetAll()
	if err != nil {
		logger.Fatal("clip load failed", logger.ErrorField(err))
	}
	playlists, err := playlistRepo.GetAllWithItems()
	if err != nil {
		logger.Fatal("playlist load failed", logger.ErrorField(err))
	}
	hotkeys, err := hotkeyRepo.GetAll()
	if err != nil {
		logger.Fatal("hotkey load failed", logger.ErrorField(err))
	}
	ui, err := cache.LoadUIState(loadCtx)
	if err != nil {
		logger.Warn("ui state load failed, using defaults", logger.ErrorField(err))
	}

	co.Rehydrate(clips, playlists, hotkeys, ui)
	logger.Info("library rehydrated",
		logger.Int("clips", len(clips)),
		logger.Int("playlists", len(playlists)),
		logger.Int("hotkeys", len(hotkeys)))
}

// persistSnapshots mirrors session broadcasts into the cache, throttled so
// progress ticks do not hammer redis.
func persistSnapshots(ctx context.Context, co *player.Coordinator) {
	ch := co.Subscribe()
	defer co.Unsubscribe(ch)

	var lastSave time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if time.Since(lastSave) < time.Second {
				continue
			}
			lastSave = time.Now()
			if err := cache.SaveSessionSnapshot(ctx, snap); err != nil {
				logger.Warn("session snapshot not cached", logger.ErrorField(err))
			}
		}
	}
}

// newRouter registers every route.
func newRouter(h *APIHandler) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.RegisterHandler).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", h.LoginHandler).Methods("POST", "OPTIONS")

	api.HandleFunc("/clips", h.AuthMiddleware(h.GetClipsHandler)).Methods("GET", "OPTIONS")
	api.HandleFunc("/clips", h.AuthMiddleware(h.UploadClipsHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/clips/{id}", h.AuthMiddleware(h.UpdateClipHandler)).Methods("PATCH", "OPTIONS")
	api.HandleFunc("/clips/{id}", h.AuthMiddleware(h.DeleteClipHandler)).Methods("DELETE", "OPTIONS")

	api.HandleFunc("/playlists", h.AuthMiddleware(h.GetPlaylistsHandler)).Methods("GET", "OPTIONS")
	api.HandleFunc("/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/playlists/{id}", h.AuthMiddleware(h.UpdatePlaylistHandler)).Methods("PATCH", "OPTIONS")
	api.HandleFunc("/playlists/{id}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/playlists/{id}/items", h.AuthMiddleware(h.AddItemHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/playlists/{id}/items/{item_id}", h.AuthMiddleware(h.RemoveItemHandler)).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/playlists/{id}/items/{item_id}/position", h.AuthMiddleware(h.MoveItemHandler)).Methods("PUT", "OPTIONS")

	api.HandleFunc("/hotkeys", h.AuthMiddleware(h.GetHotkeysHandler)).Methods("GET", "OPTIONS")
	api.HandleFunc("/hotkeys/bank", h.AuthMiddleware(h.SelectBankHandler)).Methods("PUT", "OPTIONS")
	api.HandleFunc("/hotkeys/{bank}/{position}", h.AuthMiddleware(h.AssignHotkeyHandler)).Methods("PUT", "OPTIONS")
	api.HandleFunc("/hotkeys/{bank}/{position}", h.AuthMiddleware(h.ClearHotkeyHandler)).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/hotkeys/{bank}/{position}/play", h.AuthMiddleware(h.PlayHotkeyHandler)).Methods("POST", "OPTIONS")

	api.HandleFunc("/player", h.AuthMiddleware(h.GetStateHandler)).Methods("GET", "OPTIONS")
	api.HandleFunc("/player/play", h.AuthMiddleware(h.PlayHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/player/stop", h.AuthMiddleware(h.StopHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/player/pause", h.AuthMiddleware(h.PauseHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/player/resume", h.AuthMiddleware(h.ResumeHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/player/next", h.AuthMiddleware(h.NextHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/player/previous", h.AuthMiddleware(h.PreviousHandler)).Methods("POST", "OPTIONS")
	api.HandleFunc("/player/seek", h.AuthMiddleware(h.SeekHandler)).Methods("PUT", "OPTIONS")
	api.HandleFunc("/player/loop", h.AuthMiddleware(h.SetLoopHandler)).Methods("PUT", "OPTIONS")

	api.HandleFunc("/settings/export", h.AuthMiddleware(h.ExportSettingsHandler)).Methods("GET", "OPTIONS")
	api.HandleFunc("/settings/import", h.AuthMiddleware(h.ImportSettingsHandler)).Methods("POST", "OPTIONS")

	r.HandleFunc("/ws/session", h.SessionSocketHandler)

	return r
}

// corsMiddleware handles cross-origin requests from the browser frontend.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
