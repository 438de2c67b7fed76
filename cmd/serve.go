package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/golive-cli/internal/config"
	"github.com/sells-group/golive-cli/internal/engine"
	"github.com/sells-group/golive-cli/internal/healthscore"
	"github.com/sells-group/golive-cli/internal/montecarlo"
	"github.com/sells-group/golive-cli/internal/phase"
	"github.com/sells-group/golive-cli/internal/scenario"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(store, cfg.Server.RateLimit, cfg.Simulation),
		}

		// Graceful shutdown
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

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

type apiServer struct {
	store scenario.Store
	sim   config.SimulationConfig
}

// newRouter assembles the chi router with CORS and a global rate limit.
func newRouter(store scenario.Store, rps float64, sim config.SimulationConfig) http.Handler {
	s := &apiServer{store: store, sim: sim}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	if rps > 0 {
		r.Use(throttle(rate.NewLimiter(rate.Limit(rps), int(rps))))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/timeline", s.handleTimeline)
		r.Post("/simulate", s.handleSimulate)
		r.Get("/scenarios", s.handleListScenarios)
		r.Post("/scenarios", s.handleSaveScenario)
		r.Get("/scenarios/{name}", s.handleGetScenario)
		r.Delete("/scenarios/{name}", s.handleDeleteScenario)
	})

	return r
}

// throttle applies a shared token bucket across all requests.
func throttle(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type timelineRequest struct {
	Windows  phase.Windows    `json:"windows"`
	Baseline phase.Windows    `json:"baseline"`
	Risks    phase.RiskValues `json:"risks"`

	BudgetPctUsed float64 `json:"budget_pct_used"`
}

type timelineResponse struct {
	Quality     float64                 `json:"quality"`
	HealthScore float64                 `json:"health_score"`
	Status      healthscore.Status      `json:"status"`
	Delays      map[phase.Phase]int     `json:"delays"`
	EndDates    map[phase.Phase]string  `json:"end_dates"`
	Health      map[phase.Phase]float64 `json:"health"`
	MainRisk    string                  `json:"main_risk"`
}

func (s *apiServer) handleTimeline(w http.ResponseWriter, r *http.Request) {
	var req timelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Baseline == nil {
		req.Baseline = phase.DefaultBaseline()
	}

	result, err := engine.BuildTimeline(req.Windows, req.Baseline, req.Risks)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	quality := result.QualityAt(phase.GoLiveDate())
	score := healthscore.Score(quality, result.MaxDelay(), req.BudgetPctUsed, req.Risks.Sum())
	riskPhase, _ := result.MainRisk()

	endDates := make(map[phase.Phase]string, phase.Count)
	for p, d := range result.EndDates {
		endDates[p] = d.Format("2006-01-02")
	}

	health := make(map[phase.Phase]float64, phase.Count)
	for p, h := range result.Health {
		health[p] = h * 100
	}

	writeJSON(w, http.StatusOK, timelineResponse{
		Quality:     quality,
		HealthScore: score,
		Status:      healthscore.StatusFor(score),
		Delays:      result.Delays,
		EndDates:    endDates,
		Health:      health,
		MainRisk:    riskPhase.String(),
	})
}

type simulateRequest struct {
	timelineRequest

	Draws       int     `json:"draws"`
	Seed        int64   `json:"seed"`
	MonthlyCost float64 `json:"monthly_cost"`
}

func (s *apiServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Baseline == nil {
		req.Baseline = phase.DefaultBaseline()
	}

	params := montecarlo.Params{
		Scenario:    req.Windows,
		Baseline:    req.Baseline,
		Risks:       req.Risks,
		Draws:       s.sim.Draws,
		Seed:        s.sim.Seed,
		Workers:     s.sim.Workers,
		MonthlyCost: req.MonthlyCost,
	}
	if req.Draws > 0 {
		params.Draws = req.Draws
	}
	if req.Seed != 0 {
		params.Seed = req.Seed
	}

	summary, err := montecarlo.Run(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *apiServer) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	filter := scenario.ListFilter{Name: r.URL.Query().Get("match")}
	scenarios, err := s.store.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scenarios == nil {
		scenarios = []scenario.Scenario{}
	}
	writeJSON(w, http.StatusOK, scenarios)
}

func (s *apiServer) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	var sc scenario.Scenario
	if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sc.Baseline == nil {
		sc.Baseline = phase.DefaultBaseline()
	}
	if sc.Risks == nil {
		sc.Risks = phase.RiskValues{}
	}
	if sc.ID == "" {
		fresh := scenario.New(sc.Name, sc.Windows, sc.Risks)
		fresh.Baseline = sc.Baseline
		fresh.BudgetPctUsed = sc.BudgetPctUsed
		fresh.MonthlyCost = sc.MonthlyCost
		sc = *fresh
	}

	if err := s.store.Save(r.Context(), &sc); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sc)
}

func (s *apiServer) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if eris.Is(err, scenario.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *apiServer) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := s.store.GetByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		if eris.Is(err, scenario.ErrNotFound) {
			writeError(w, http.StatusNotFound, "scenario not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.store.Delete(r.Context(), sc.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
