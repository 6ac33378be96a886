// Package server exposes deck generation over HTTP: a template picker page,
// preview thumbnails and the generation endpoint itself.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"deckgen/state"
)

// Handler carries request handlers and their shared environment.
type Handler struct {
	env *state.LocalEnv
	log *zap.Logger
}

// New creates the HTTP handler set.
func New(env *state.LocalEnv) *Handler {
	return &Handler{env: env, log: env.Log.Named("http")}
}

// Routes builds the service router.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.Index).Methods(http.MethodGet)
	r.HandleFunc("/tutorial", h.Tutorial).Methods(http.MethodGet)
	r.HandleFunc("/thumbs/{image}", h.Thumbnail).Methods(http.MethodGet)
	r.HandleFunc("/generate", h.Generate).Methods(http.MethodPost)
	r.PathPrefix("/images/").Handler(http.StripPrefix("/images/",
		http.FileServer(http.Dir(h.env.Cfg.Catalog.ImagesDir))))
	return r
}

// Run implements the serve subcommand. It serves HTTP until the context is
// canceled, then shuts down gracefully.
func Run(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	h := New(env)

	addr := cmd.String("listen")
	if addr == "" {
		addr = net.JoinHostPort(env.Cfg.Server.Host, strconv.Itoa(env.Cfg.Server.Port))
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  time.Duration(env.Cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(env.Cfg.Server.WriteTimeoutSec) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	env.Log.Info("Server started", zap.String("address", srv.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		<-errCh
		env.Log.Info("Server stopped", zap.Duration("uptime", env.Uptime()))
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	}
}
