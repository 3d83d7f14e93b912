package server

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/ecospark/ewaste-server/internal/model"
	"github.com/ecospark/ewaste-server/internal/prompt"
)

// collectorDirectory is the static kabadiwala/informal-collector listing.
var collectorDirectory = []model.Collector{
	{Name: "GreenScrap Delhi", City: "Delhi", Phone: "9999988888", Verified: true},
	{Name: "EcoCycle Mumbai", City: "Mumbai", Phone: "9898989898", Verified: false},
	{Name: "RecycleHub Bangalore", City: "Bangalore", Phone: "9777799999", Verified: true},
	{Name: "GreenTech Chennai", City: "Chennai", Phone: "9666699999", Verified: true},
	{Name: "EcoCollect Pune", City: "Pune", Phone: "9555599999", Verified: false},
	{Name: "WasteWise Hyderabad", City: "Hyderabad", Phone: "9444499999", Verified: true},
}

// handleCollectors lists collectors with optional city and verified filters
// and a one-line AI insight.
func (s *Server) handleCollectors(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	verifiedOnly := r.URL.Query().Get("verified_only") == "true"

	filtered := make([]model.Collector, 0, len(collectorDirectory))
	citySet := make(map[string]bool)
	for _, c := range collectorDirectory {
		citySet[c.City] = true
		if city != "" && !strings.EqualFold(c.City, city) {
			continue
		}
		if verifiedOnly && !c.Verified {
			continue
		}
		filtered = append(filtered, c)
	}

	cities := make([]string, 0, len(citySet))
	for c := range citySet {
		cities = append(cities, c)
	}
	sort.Strings(cities)

	insight := s.ai.Generate(r.Context(), prompt.CollectorsInsight())

	respondJSON(w, http.StatusOK, map[string]any{
		"collectors": filtered,
		"cities":     cities,
		"insight":    insight.Text,
		"degraded":   insight.Degraded,
	})
}

func (s *Server) handleNominateCollector(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		City  string `json:"city"`
		Phone string `json:"phone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.City == "" {
		respondError(w, http.StatusBadRequest, "name and city are required")
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "received",
		"message": fmt.Sprintf("Thank you for nominating %s! We'll review and add them if verified.", req.Name),
	})
}
