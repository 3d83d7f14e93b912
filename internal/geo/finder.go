// Package geo reconciles place-search results from Google Places and Yelp
// into one normalized result schema. Google Places is the primary provider;
// Yelp is the fallback when no Places credential is configured.
package geo

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ecospark/ewaste-server/internal/model"
	"github.com/ecospark/ewaste-server/pkg/places"
	"github.com/ecospark/ewaste-server/pkg/yelp"
)

const (
	defaultRadiusKm   = 10
	minRadiusKm       = 1
	maxRadiusKm       = 50
	defaultMaxResults = 20
	yelpResultLimit   = 30

	sourceNearby = "google_places_nearby"
	sourceText   = "google_places_text"
	sourceYelp   = "yelp"

	fallbackName    = "Recycling Center"
	fallbackAddress = "Address unavailable"
)

// nearbyTypes focuses the proximity search to avoid irrelevant results.
var nearbyTypes = []string{"recycling_center", "electronics_store"}

// countryLabels maps supported country codes to the label appended to the
// text-resolution query. Unknown codes fall back to their uppercase form.
var countryLabels = map[string]string{
	"in": "India",
	"us": "USA",
	"gb": "UK",
	"ca": "Canada",
	"au": "Australia",
}

// Query describes a nearby-centers search. Text is resolved to coordinates
// when Lat/Lng are absent. Country is a lowercase two-letter code; Bounds
// hard-filters results to a visible map area.
type Query struct {
	Text     string
	Lat      *float64
	Lng      *float64
	RadiusKm float64
	Country  string
	Bounds   *model.Bounds
}

// Finder queries whichever geo provider is configured and normalizes the
// response. A nil client means that provider is unconfigured.
type Finder struct {
	places     places.Client
	yelp       yelp.Client
	limiter    *rate.Limiter
	maxResults int
}

// FinderOption configures a Finder.
type FinderOption func(*Finder)

// WithRateLimit caps Google Places requests per second.
func WithRateLimit(rps float64) FinderOption {
	return func(f *Finder) {
		f.limiter = rate.NewLimiter(rate.Limit(rps), int(math.Max(rps, 1)))
	}
}

// WithMaxResults overrides the per-search result cap.
func WithMaxResults(n int) FinderOption {
	return func(f *Finder) {
		f.maxResults = n
	}
}

// NewFinder creates a Finder. Pass nil for an unconfigured provider.
func NewFinder(placesClient places.Client, yelpClient yelp.Client, opts ...FinderOption) *Finder {
	f := &Finder{
		places:     placesClient,
		yelp:       yelpClient,
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		maxResults: defaultMaxResults,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// FindNearby returns normalized recycling-center results around the query
// location. Proximity results precede broader text-search results; duplicates
// across the two searches are not collapsed.
func (f *Finder) FindNearby(ctx context.Context, q Query) ([]model.GeoResult, error) {
	if f.places == nil && f.yelp == nil {
		return nil, ErrNoProvider
	}

	radiusM := clampRadiusMeters(q.RadiusKm)

	if f.places != nil {
		return f.findWithPlaces(ctx, q, radiusM)
	}
	return f.findWithYelp(ctx, q, radiusM)
}

func (f *Finder) findWithPlaces(ctx context.Context, q Query, radiusM float64) ([]model.GeoResult, error) {
	lat, lng := q.Lat, q.Lng

	if q.Text != "" && (lat == nil || lng == nil) {
		var err error
		lat, lng, err = f.resolveText(ctx, q)
		if err != nil {
			return nil, err
		}
	}
	if lat == nil || lng == nil {
		return nil, &UnresolvableLocationError{Query: q.Text}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geo: rate limit wait")
	}
	resp, err := f.places.NearbySearch(ctx, places.NearbySearchRequest{
		LocationRestriction: places.LocationRestriction{
			Circle: &places.Circle{
				Center: places.LatLng{Latitude: *lat, Longitude: *lng},
				Radius: radiusM,
			},
		},
		IncludedTypes:  nearbyTypes,
		RankPreference: "DISTANCE",
		MaxResultCount: f.maxResults,
	})
	if err != nil {
		zap.L().Warn("nearby search failed, retrying as text search", zap.Error(err))
		tresp, terr := f.broadTextSearch(ctx, q, *lat, *lng, radiusM)
		if terr != nil {
			return nil, eris.Wrap(terr, "geo: text search fallback")
		}
		// The outage path skips country heuristics; bounds still apply.
		return normalizePlaces(tresp.Places, sourceText, false, q.Bounds), nil
	}

	excludeUS := q.Country != "" && q.Country != "us"
	results := normalizePlaces(resp.Places, sourceNearby, excludeUS, q.Bounds)

	if len(results) == 0 {
		tresp, terr := f.broadTextSearch(ctx, q, *lat, *lng, radiusM)
		if terr != nil {
			return nil, eris.Wrap(terr, "geo: broader text search")
		}
		results = append(results, normalizePlaces(tresp.Places, sourceText, excludeUS, q.Bounds)...)
	}
	return results, nil
}

// resolveText turns a place name into coordinates via a single text-search
// call biased by the country hint and map bounds.
func (f *Finder) resolveText(ctx context.Context, q Query) (*float64, *float64, error) {
	label := countryLabels[q.Country]
	if label == "" && q.Country != "" {
		label = strings.ToUpper(q.Country)
	}
	textQuery := q.Text
	if label != "" {
		textQuery += ", " + label
	}

	req := places.TextSearchRequest{
		TextQuery:      textQuery,
		MaxResultCount: 1,
	}
	if q.Country != "" {
		req.RegionCode = strings.ToUpper(q.Country)
	}
	if q.Bounds != nil {
		req.LocationBias = &places.LocationBias{
			Rectangle: &places.Rectangle{
				Low:  places.LatLng{Latitude: q.Bounds.SWLat, Longitude: q.Bounds.SWLng},
				High: places.LatLng{Latitude: q.Bounds.NELat, Longitude: q.Bounds.NELng},
			},
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, nil, eris.Wrap(err, "geo: rate limit wait")
	}
	resp, err := f.places.TextSearch(ctx, req)
	if err != nil {
		zap.L().Warn("text resolution failed", zap.String("query", textQuery), zap.Error(err))
		return nil, nil, &UnresolvableLocationError{Query: textQuery}
	}
	if len(resp.Places) == 0 || resp.Places[0].Location == nil {
		return nil, nil, &UnresolvableLocationError{Query: textQuery}
	}
	loc := resp.Places[0].Location
	return &loc.Latitude, &loc.Longitude, nil
}

func (f *Finder) broadTextSearch(ctx context.Context, q Query, lat, lng, radiusM float64) (*places.SearchResponse, error) {
	req := places.TextSearchRequest{
		TextQuery:      fmt.Sprintf("electronics recycling near %v,%v", lat, lng),
		MaxResultCount: f.maxResults,
		LocationBias: &places.LocationBias{
			Circle: &places.Circle{
				Center: places.LatLng{Latitude: lat, Longitude: lng},
				Radius: radiusM,
			},
		},
	}
	if q.Country != "" {
		req.RegionCode = strings.ToUpper(q.Country)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geo: rate limit wait")
	}
	return f.places.TextSearch(ctx, req)
}

func (f *Finder) findWithYelp(ctx context.Context, q Query, radiusM float64) ([]model.GeoResult, error) {
	if q.Lat == nil || q.Lng == nil {
		return nil, &UnresolvableLocationError{Query: q.Text}
	}

	resp, err := f.yelp.Search(ctx, yelp.SearchParams{
		Term:         "electronics recycling, e-waste recycling, recycling center",
		Latitude:     *q.Lat,
		Longitude:    *q.Lng,
		RadiusMeters: int(radiusM),
		Limit:        yelpResultLimit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "geo: yelp search")
	}

	results := make([]model.GeoResult, 0, len(resp.Businesses))
	for _, b := range resp.Businesses {
		if b.Coordinates.Latitude == nil || b.Coordinates.Longitude == nil {
			continue
		}
		name := b.Name
		if name == "" {
			name = fallbackName
		}
		address := strings.Join(b.Location.DisplayAddress, ", ")
		if address == "" {
			address = fallbackAddress
		}
		results = append(results, model.GeoResult{
			Name:      name,
			Address:   address,
			Latitude:  *b.Coordinates.Latitude,
			Longitude: *b.Coordinates.Longitude,
			Source:    sourceYelp,
		})
	}
	return results, nil
}

func normalizePlaces(recs []places.Place, source string, excludeUS bool, bounds *model.Bounds) []model.GeoResult {
	results := make([]model.GeoResult, 0, len(recs))
	for _, p := range recs {
		if p.Location == nil {
			continue
		}
		name := p.DisplayName.Text
		if name == "" {
			name = fallbackName
		}
		address := p.FormattedAddress
		if address == "" {
			address = fallbackAddress
		}
		if excludeUS && looksLikeUS(address, p.Location.Longitude) {
			continue
		}
		if bounds != nil && !bounds.Contains(p.Location.Latitude, p.Location.Longitude) {
			continue
		}
		results = append(results, model.GeoResult{
			Name:        name,
			Address:     address,
			Latitude:    p.Location.Latitude,
			Longitude:   p.Location.Longitude,
			Source:      source,
			Types:       p.Types,
			Rating:      p.Rating,
			RatingCount: p.UserRatingCount,
			Phone:       p.NationalPhoneNumber,
			Website:     p.WebsiteURI,
		})
	}
	return results
}

// looksLikeUS applies coarse United States heuristics used when the caller
// explicitly selected a different country: an address naming the country, or
// a longitude deep in the western hemisphere.
func looksLikeUS(address string, lng float64) bool {
	if strings.Contains(address, "United States") || strings.HasSuffix(address, ", USA") {
		return true
	}
	return lng < -30
}

func clampRadiusMeters(radiusKm float64) float64 {
	if radiusKm == 0 {
		radiusKm = defaultRadiusKm
	}
	return math.Min(math.Max(radiusKm, minRadiusKm), maxRadiusKm) * 1000
}
