package main

import (
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

	"github.com/nexsupply/report-core/internal/facts"
	"github.com/nexsupply/report-core/internal/model"
	"github.com/nexsupply/report-core/internal/quality"
	"github.com/nexsupply/report-core/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for weight, quality, and facts lookups",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		resolver, err := newResolver()
		if err != nil {
			return err
		}

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/reports/{id}", func(r chi.Router) {
			r.Get("/weight", withReport(st, func(w http.ResponseWriter, req *http.Request, report *model.RawReportView) {
				result := resolver.Resolve(req.Context(), report)
				writeJSON(w, http.StatusOK, result)
			}))

			r.Get("/quality", withReport(st, func(w http.ResponseWriter, req *http.Request, report *model.RawReportView) {
				writeJSON(w, http.StatusOK, quality.Compute(report))
			}))

			r.Get("/facts", withReport(st, func(w http.ResponseWriter, req *http.Request, report *model.RawReportView) {
				writeJSON(w, http.StatusOK, factsResponse{
					Confirmed: facts.Confirmed(report, nil),
					Missing:   facts.Missing(report),
				})
			}))
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

type factsResponse struct {
	Confirmed []model.FactItem        `json:"confirmed"`
	Missing   []model.MissingInfoItem `json:"missing"`
}

type reportHandler func(w http.ResponseWriter, r *http.Request, report *model.RawReportView)

// withReport loads the report named in the URL and hands it to next,
// mapping a missing record to 404.
func withReport(st store.Store, next reportHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		report, err := st.GetReport(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"})
				return
			}
			zap.L().Error("load report failed", zap.String("report_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
			return
		}
		next(w, r, report)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
