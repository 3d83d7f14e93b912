package server

import (
	"net/http"
	"time"

	"github.com/ecospark/ewaste-server/internal/aitext"
	"github.com/ecospark/ewaste-server/internal/estimate"
	"github.com/ecospark/ewaste-server/internal/geo"
	"github.com/ecospark/ewaste-server/internal/model"
	"github.com/ecospark/ewaste-server/internal/prompt"
)

func (s *Server) handleEducation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Topic == "" {
		respondError(w, http.StatusBadRequest, "topic is required")
		return
	}

	resp := s.ai.Generate(r.Context(), prompt.Education(req.Topic))
	respondJSON(w, http.StatusOK, map[string]any{
		"topic":       req.Topic,
		"explanation": resp.Text,
		"model":       resp.Model,
		"degraded":    resp.Degraded,
	})
}

func (s *Server) handleEcoTip(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format("2006-01-02")

	resp := s.ai.Generate(r.Context(), prompt.EcoTip(today))
	respondJSON(w, http.StatusOK, map[string]any{
		"date":     today,
		"tip":      resp.Text,
		"degraded": resp.Degraded,
	})
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	resp := s.ai.Generate(r.Context(), prompt.Quiz())
	questions := aitext.ParseQuiz(resp.Text)

	respondJSON(w, http.StatusOK, map[string]any{
		"questions": questions,
		"degraded":  resp.Degraded,
	})
}

func (s *Server) handleQuizScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Questions []model.QuizQuestion `json:"questions"`
		Answers   []string             `json:"answers"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	questions := req.Questions
	if len(questions) > aitext.QuizSize {
		questions = questions[:aitext.QuizSize]
	}

	score := 0
	for i := range questions {
		if i < len(req.Answers) {
			questions[i].UserChoice = req.Answers[i]
		}
		if questions[i].UserChoice != "" && questions[i].UserChoice == questions[i].Answer {
			score++
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"score":     score,
		"total":     len(questions),
		"questions": questions,
	})
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item string `json:"item"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Item == "" {
		respondError(w, http.StatusBadRequest, "item is required")
		return
	}

	resp := s.ai.Generate(r.Context(), prompt.Decision(req.Item))
	category, reason := aitext.ParseDecision(resp.Text, aitext.RecycleReuseOptions())

	respondJSON(w, http.StatusOK, map[string]any{
		"item":     req.Item,
		"decision": category,
		"reason":   reason,
		"degraded": resp.Degraded,
	})
}

func (s *Server) handleReuse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model     string   `json:"model"`
		Condition string   `json:"condition"`
		Age       string   `json:"age"`
		Lat       *float64 `json:"lat"`
		Lng       *float64 `json:"lng"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	resp := s.ai.Generate(r.Context(), prompt.Reuse(req.Model, req.Condition, req.Age))
	category, reasoning := aitext.ParseDecision(resp.Text, aitext.ReuseActionOptions())

	needsLocation := category == "Repair" || category == "Donate"
	var shops []model.RepairShop
	if needsLocation {
		if req.Lat != nil && req.Lng != nil {
			shops = s.shops.FindShops(r.Context(), req.Model, *req.Lat, *req.Lng)
		} else {
			shops = geo.LocationPromptShops()
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"recommendation": category,
		"reasoning":      reasoning,
		"shops":          shops,
		"needs_location": needsLocation,
		"degraded":       resp.Degraded,
	})
}

func (s *Server) handleValue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model    string  `json:"model"`
		AgeYears float64 `json:"age_years"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Model == "" {
		respondError(w, http.StatusBadRequest, "model is required")
		return
	}
	if req.AgeYears < 0 {
		respondError(w, http.StatusBadRequest, "age_years must be non-negative")
		return
	}

	resp := s.ai.Generate(r.Context(), prompt.Value(req.Model, req.AgeYears))
	valuation := aitext.ParseMetals(resp.Text, s.basePrices())
	est := estimate.Estimate(valuation, req.AgeYears)

	respondJSON(w, http.StatusOK, map[string]any{
		"model":               req.Model,
		"age_years":           req.AgeYears,
		"metals":              valuation.Grams,
		"prices":              valuation.Prices,
		"base_value":          est.BaseValue,
		"depreciation_factor": est.DepreciationFactor,
		"estimated_payout":    est.EstimatedPayout,
		"ai_response":         resp.Text,
		"degraded":            resp.Degraded,
	})
}

func (s *Server) handleHazard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Component string `json:"component"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Component == "" {
		respondError(w, http.StatusBadRequest, "component is required")
		return
	}

	resp := s.ai.Generate(r.Context(), prompt.Hazard(req.Component))
	respondJSON(w, http.StatusOK, map[string]any{
		"component":   req.Component,
		"explanation": resp.Text,
		"degraded":    resp.Degraded,
	})
}
