package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ecospark/ewaste-server/internal/geo"
	"github.com/ecospark/ewaste-server/internal/model"
)

// handleCentersNearby finds recycling centers around a point or place name.
//
// Query params: q (place text), country (2-letter code), lat, lng,
// radius_km, and sw_lat/sw_lng/ne_lat/ne_lng map bounds.
func (s *Server) handleCentersNearby(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	q := geo.Query{
		Text:    strings.TrimSpace(params.Get("q")),
		Country: strings.ToLower(strings.TrimSpace(params.Get("country"))),
		Lat:     parseFloatParam(params.Get("lat")),
		Lng:     parseFloatParam(params.Get("lng")),
	}
	if radius := parseFloatParam(params.Get("radius_km")); radius != nil {
		q.RadiusKm = *radius
	} else {
		q.RadiusKm = s.cfg.Search.DefaultRadiusKm
	}

	swLat := parseFloatParam(params.Get("sw_lat"))
	swLng := parseFloatParam(params.Get("sw_lng"))
	neLat := parseFloatParam(params.Get("ne_lat"))
	neLng := parseFloatParam(params.Get("ne_lng"))
	if swLat != nil && swLng != nil && neLat != nil && neLng != nil {
		q.Bounds = &model.Bounds{SWLat: *swLat, SWLng: *swLng, NELat: *neLat, NELng: *neLng}
	}

	results, err := s.finder.FindNearby(r.Context(), q)
	if err != nil {
		var unresolvable *geo.UnresolvableLocationError
		switch {
		case errors.As(err, &unresolvable):
			respondJSON(w, http.StatusBadRequest, map[string]any{
				"centers": []model.GeoResult{},
				"error":   "could not resolve place to coordinates",
				"query":   unresolvable.Query,
			})
		case errors.Is(err, geo.ErrNoProvider):
			respondError(w, http.StatusPreconditionFailed,
				"no geo provider configured; set a Google Places or Yelp API key")
		default:
			zap.L().Error("nearby center search failed", zap.Error(err))
			respondError(w, http.StatusBadGateway, "place search failed")
		}
		return
	}

	if results == nil {
		results = []model.GeoResult{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"centers": results})
}

func parseFloatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
