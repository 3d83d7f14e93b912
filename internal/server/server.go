// Package server exposes the e-waste service as a JSON HTTP API for the
// browser frontend.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ecospark/ewaste-server/internal/config"
	"github.com/ecospark/ewaste-server/internal/geo"
	"github.com/ecospark/ewaste-server/internal/model"
	"github.com/ecospark/ewaste-server/internal/store"
	"github.com/ecospark/ewaste-server/pkg/gemini"
)

// centerFinder locates recycling centers through external geo providers.
type centerFinder interface {
	FindNearby(ctx context.Context, q geo.Query) ([]model.GeoResult, error)
}

// shopFinder locates repair shops for the reuse flow.
type shopFinder interface {
	FindShops(ctx context.Context, deviceModel string, lat, lng float64) []model.RepairShop
}

// Server holds handler dependencies.
type Server struct {
	store  store.Store
	ai     gemini.Client
	finder centerFinder
	shops  shopFinder
	cfg    *config.Config
}

// New creates a Server.
func New(st store.Store, ai gemini.Client, finder centerFinder, shops shopFinder, cfg *config.Config) *Server {
	return &Server{
		store:  st,
		ai:     ai,
		finder: finder,
		shops:  shops,
		cfg:    cfg,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/centers", s.handleListCenters)
		r.Get("/centers/nearby", s.handleCentersNearby)

		r.Post("/education", s.handleEducation)
		r.Get("/eco-tip", s.handleEcoTip)
		r.Get("/quiz", s.handleQuiz)
		r.Post("/quiz/score", s.handleQuizScore)
		r.Post("/decision", s.handleDecision)
		r.Post("/reuse", s.handleReuse)
		r.Post("/value", s.handleValue)
		r.Post("/hazard", s.handleHazard)

		r.Post("/credits", s.handleCredits)
		r.Get("/pickups", s.handleListPickups)
		r.Post("/pickups", s.handleCreatePickup)

		r.Get("/collectors", s.handleCollectors)
		r.Post("/collectors/nominate", s.handleNominateCollector)

		r.Get("/challenges", s.handleChallenges)
		r.Post("/challenges/complete", s.handleCompleteChallenge)

		r.Get("/dashboard", s.handleDashboard)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// basePrices converts configured metal price baselines into the parser's
// shape.
func (s *Server) basePrices() map[string]float64 {
	return map[string]float64{
		"gold":   s.cfg.Valuation.GoldPrice,
		"copper": s.cfg.Valuation.CopperPrice,
		"silver": s.cfg.Valuation.SilverPrice,
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
