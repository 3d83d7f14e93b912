package server

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecospark/ewaste-server/internal/estimate"
	"github.com/ecospark/ewaste-server/internal/model"
)

func (s *Server) handleListCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := s.store.ListCenters(r.Context())
	if err != nil {
		zap.L().Error("list centers failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not list centers")
		return
	}
	if centers == nil {
		centers = []model.Center{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"centers": centers})
}

// handleCredits awards scrap-credit points for a known device model. Without
// a user_id the computed points are returned but nothing is persisted.
func (s *Server) handleCredits(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeviceModel string `json:"device_model"`
		UserID      string `json:"user_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DeviceModel == "" {
		respondError(w, http.StatusBadRequest, "device_model is required")
		return
	}

	device, err := s.store.GetDeviceByModel(r.Context(), req.DeviceModel)
	if err != nil {
		zap.L().Error("device lookup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "device lookup failed")
		return
	}
	if device == nil {
		respondError(w, http.StatusNotFound, "device model not found")
		return
	}

	points := estimate.Points(device.MetalValue)
	result := map[string]any{
		"model_name":     device.ModelName,
		"metal_value":    device.MetalValue,
		"points_awarded": points,
		"saved":          false,
	}

	if req.UserID != "" {
		balance, err := s.store.AddPoints(r.Context(), req.UserID, points)
		if err != nil {
			zap.L().Error("add points failed", zap.String("user_id", req.UserID), zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not save points")
			return
		}
		result["saved"] = true
		result["balance"] = balance
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreatePickup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Address    string `json:"address"`
		WasteType  string `json:"waste_type"`
		DriveType  string `json:"drive_type"`
		PickupDate string `json:"pickup_date"`
		PickupTime string `json:"pickup_time"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Address == "" {
		respondError(w, http.StatusBadRequest, "name, email and address are required")
		return
	}
	driveType := model.DriveType(req.DriveType)
	if driveType != model.DriveTypeSinglePickup && driveType != model.DriveTypeCommunityDrive {
		respondError(w, http.StatusBadRequest, "drive_type must be single_pickup or community_drive")
		return
	}

	pickup, err := s.store.CreatePickup(r.Context(), model.Pickup{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		WasteType:  req.WasteType,
		DriveType:  driveType,
		PickupDate: req.PickupDate,
		PickupTime: req.PickupTime,
	})
	if err != nil {
		zap.L().Error("create pickup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not save pickup request")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"pickup":  pickup,
		"message": "Your request has been saved! We'll contact you soon.",
	})
}

func (s *Server) handleListPickups(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	pickups, err := s.store.ListPickups(r.Context(), limit)
	if err != nil {
		zap.L().Error("list pickups failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not list pickups")
		return
	}
	if pickups == nil {
		pickups = []model.Pickup{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"pickups": pickups})
}

// challengeSummary is the green-challenges progress view for one user.
type challengeSummary struct {
	Challenges []model.Challenge `json:"challenges"`
	Completed  []string          `json:"completed"`
	TotalCO2   float64           `json:"total_co2"`
	Progress   int               `json:"progress"`
	Badge      string            `json:"badge,omitempty"`
	BadgeName  string            `json:"badge_name,omitempty"`
}

func (s *Server) buildChallengeSummary(ctx context.Context, userID string) (*challengeSummary, error) {
	challenges, err := s.store.ListActiveChallenges(ctx)
	if err != nil {
		return nil, err
	}

	var completed []string
	if userID != "" {
		completed, err = s.store.ListCompletedChallengeIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	completedSet := make(map[string]bool, len(completed))
	for _, id := range completed {
		completedSet[id] = true
	}

	var totalCO2 float64
	for _, c := range challenges {
		if completedSet[c.ID] {
			totalCO2 += c.CO2Saved
		}
	}

	progress := 0
	if len(challenges) > 0 {
		progress = int(float64(len(completed)) / float64(len(challenges)) * 100)
	}

	badge, badgeName := badgeFor(len(completed))

	if challenges == nil {
		challenges = []model.Challenge{}
	}
	if completed == nil {
		completed = []string{}
	}
	return &challengeSummary{
		Challenges: challenges,
		Completed:  completed,
		TotalCO2:   math.Round(totalCO2*10) / 10,
		Progress:   progress,
		Badge:      badge,
		BadgeName:  badgeName,
	}, nil
}

func badgeFor(completedCount int) (badge, name string) {
	switch {
	case completedCount >= 5:
		return "🌳", "Eco Hero"
	case completedCount >= 3:
		return "🌿", "Green Influencer"
	case completedCount >= 1:
		return "🌱", "Eco Starter"
	default:
		return "", ""
	}
}

func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request) {
	summary, err := s.buildChallengeSummary(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		zap.L().Error("challenge summary failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load challenges")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// handleCompleteChallenge records a completion. Repeat completions and
// unknown challenge IDs are no-ops, not errors.
func (s *Server) handleCompleteChallenge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string `json:"user_id"`
		ChallengeID string `json:"challenge_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID == "" || req.ChallengeID == "" {
		respondError(w, http.StatusBadRequest, "user_id and challenge_id are required")
		return
	}

	created, err := s.store.CompleteChallenge(r.Context(), req.UserID, req.ChallengeID)
	if err != nil {
		zap.L().Error("complete challenge failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not record completion")
		return
	}

	summary, err := s.buildChallengeSummary(r.Context(), req.UserID)
	if err != nil {
		zap.L().Error("challenge summary failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load challenges")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"created": created,
		"summary": summary,
	})
}

// handleDashboard fans out the independent store reads concurrently.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	var (
		centers []model.Center
		points  int
		summary *challengeSummary
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		centers, err = s.store.ListCenters(ctx)
		return err
	})
	g.Go(func() error {
		if userID == "" {
			return nil
		}
		var err error
		points, err = s.store.GetPoints(ctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.buildChallengeSummary(ctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("dashboard load failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not load dashboard")
		return
	}

	if centers == nil {
		centers = []model.Center{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"centers":    centers,
		"points":     points,
		"challenges": summary,
	})
}
