package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/contentrun/internal/analysis"
	"github.com/sawpanic/contentrun/internal/dataset"
	"github.com/sawpanic/contentrun/internal/metrics"
)

const maxDatasetBytes = 8 << 20

// runMonitor starts the monitoring HTTP server
func runMonitor(cmd *cobra.Command, _ []string) error {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetString("port")
	if host == "" {
		host = appConfig.Monitor.Host
	}
	if port == "" {
		port = appConfig.Monitor.Port
	}
	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid port: %s", port)
	}
	addr := net.JoinHostPort(host, port)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	nc, closeCache, err := openCache(ctx, appConfig.Redis)
	if err != nil {
		return err
	}
	defer closeCache()

	orch := newServerOrchestrator(metrics.NewRegistry(), nc)
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(orch, time.Now()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("health", fmt.Sprintf("http://%s/health", addr)).
			Str("metrics", fmt.Sprintf("http://%s/metrics", addr)).
			Str("analyze", fmt.Sprintf("http://%s/analyze", addr)).
			Msg("Monitor endpoints available")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
		return err
	}

	log.Info().Msg("Monitor server shutdown complete")
	return nil
}

func newRouter(orch *analysis.Orchestrator, started time.Time) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", healthHandler(started)).Methods(http.MethodGet)
	r.Handle("/metrics", orch.Metrics().Handler()).Methods(http.MethodGet)
	r.HandleFunc("/analyze", analyzeHandler(orch)).Methods(http.MethodPost)
	return r
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func healthHandler(started time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(started).Round(time.Second).String(),
		})
	}
}

// analyzeHandler runs one analysis over a JSON dataset posted in the body
func analyzeHandler(orch *analysis.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxDatasetBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ds, err := dataset.Parse(body, ".json")
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		count := 0
		if raw := req.URL.Query().Get("count"); raw != "" {
			if count, err = strconv.Atoi(raw); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Errorf("invalid count %q", raw))
				return
			}
		}

		report, err := orch.WithGenerator(analysis.GeneratorFromDataset(ds)).Analyze(req.Context(), analysis.RequestFromDataset(ds, count))
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, analysis.ErrInvalidRequest) {
				status = http.StatusUnprocessableEntity
			}
			writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
