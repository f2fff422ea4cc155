package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vicbot/landprice-cli/internal/realprice"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the price-query HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		eng := newEngine()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(eng, cfg.Server.CORSOrigins),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			drainAndClose(srv)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// shutdownGrace bounds how long in-flight requests get to finish on shutdown.
const shutdownGrace = 10 * time.Second

// drainAndClose stops accepting connections and waits up to shutdownGrace for
// in-flight requests to complete. The signal context is already canceled by
// the time we shut down, so the drain needs its own deadline.
func drainAndClose(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Warn("shutdown incomplete", zap.Error(err))
	}
}

// newRouter builds the HTTP API over the given engine.
func newRouter(eng *realprice.Engine, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", handleHealth(eng))
	r.Route("/api/price", func(r chi.Router) {
		r.Post("/query", handleQuery(eng))
		r.Get("/districts", handleDistricts(eng))
	})

	return r
}

func handleHealth(eng *realprice.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, stale, err := eng.Snapshot(r.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"stale":     stale,
			"records":   len(ds.Records),
			"loaded_at": ds.LoadedAt.Format(time.RFC3339),
		})
	}
}

func handleQuery(eng *realprice.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Area string `json:"area"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Area == "" {
			writeError(w, http.StatusBadRequest, "area is required")
			return
		}

		summary, err := eng.Query(r.Context(), realprice.QueryFilter(req.Area))
		if err != nil {
			if errors.Is(err, realprice.ErrDataSource) {
				writeError(w, http.StatusServiceUnavailable, "dataset unavailable")
				return
			}
			zap.L().Error("query failed", zap.String("area", req.Area), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "query failed")
			return
		}

		resp := struct {
			*realprice.QuerySummary
			Suggestions []string `json:"suggestions,omitempty"`
		}{QuerySummary: summary}
		if summary.Count == 0 {
			resp.Suggestions = realprice.SuggestDistricts(req.Area)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleDistricts(eng *realprice.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		districts, stale, err := eng.Districts(r.Context())
		if err != nil {
			if errors.Is(err, realprice.ErrDataSource) {
				writeError(w, http.StatusServiceUnavailable, "dataset unavailable")
				return
			}
			zap.L().Error("districts failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "districts failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"districts": districts,
			"stale":     stale,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs each request with its status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
