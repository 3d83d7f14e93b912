package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecospark/ewaste-server/internal/config"
	"github.com/ecospark/ewaste-server/internal/geo"
	"github.com/ecospark/ewaste-server/internal/model"
	"github.com/ecospark/ewaste-server/pkg/gemini"
)

// stubStore implements store.Store with overridable function fields.
type stubStore struct {
	listCenters      func(ctx context.Context) ([]model.Center, error)
	getDevice        func(ctx context.Context, modelName string) (*model.Device, error)
	addPoints        func(ctx context.Context, userID string, points int) (int, error)
	getPoints        func(ctx context.Context, userID string) (int, error)
	createPickup     func(ctx context.Context, pickup model.Pickup) (*model.Pickup, error)
	listPickups      func(ctx context.Context, limit int) ([]model.Pickup, error)
	listChallenges   func(ctx context.Context) ([]model.Challenge, error)
	complete         func(ctx context.Context, userID, challengeID string) (bool, error)
	listCompletedIDs func(ctx context.Context, userID string) ([]string, error)
}

func (s *stubStore) ListCenters(ctx context.Context) ([]model.Center, error) {
	if s.listCenters == nil {
		return nil, nil
	}
	return s.listCenters(ctx)
}

func (s *stubStore) CreateCenter(_ context.Context, center model.Center) (*model.Center, error) {
	return &center, nil
}

func (s *stubStore) GetDeviceByModel(ctx context.Context, modelName string) (*model.Device, error) {
	if s.getDevice == nil {
		return nil, nil
	}
	return s.getDevice(ctx, modelName)
}

func (s *stubStore) CreateDevice(_ context.Context, device model.Device) (*model.Device, error) {
	return &device, nil
}

func (s *stubStore) AddPoints(ctx context.Context, userID string, points int) (int, error) {
	if s.addPoints == nil {
		return points, nil
	}
	return s.addPoints(ctx, userID, points)
}

func (s *stubStore) GetPoints(ctx context.Context, userID string) (int, error) {
	if s.getPoints == nil {
		return 0, nil
	}
	return s.getPoints(ctx, userID)
}

func (s *stubStore) CreatePickup(ctx context.Context, pickup model.Pickup) (*model.Pickup, error) {
	if s.createPickup == nil {
		pickup.ID = "pickup-1"
		return &pickup, nil
	}
	return s.createPickup(ctx, pickup)
}

func (s *stubStore) ListPickups(ctx context.Context, limit int) ([]model.Pickup, error) {
	if s.listPickups == nil {
		return nil, nil
	}
	return s.listPickups(ctx, limit)
}

func (s *stubStore) ListActiveChallenges(ctx context.Context) ([]model.Challenge, error) {
	if s.listChallenges == nil {
		return nil, nil
	}
	return s.listChallenges(ctx)
}

func (s *stubStore) CreateChallenge(_ context.Context, challenge model.Challenge) (*model.Challenge, error) {
	return &challenge, nil
}

func (s *stubStore) CompleteChallenge(ctx context.Context, userID, challengeID string) (bool, error) {
	if s.complete == nil {
		return true, nil
	}
	return s.complete(ctx, userID, challengeID)
}

func (s *stubStore) ListCompletedChallengeIDs(ctx context.Context, userID string) ([]string, error) {
	if s.listCompletedIDs == nil {
		return nil, nil
	}
	return s.listCompletedIDs(ctx, userID)
}

func (s *stubStore) Migrate(context.Context) error { return nil }
func (s *stubStore) Close() error                  { return nil }

type stubAI struct {
	response   gemini.Response
	lastPrompt string
}

func (s *stubAI) Generate(_ context.Context, prompt string) gemini.Response {
	s.lastPrompt = prompt
	return s.response
}

type stubCenterFinder struct {
	fn func(ctx context.Context, q geo.Query) ([]model.GeoResult, error)
}

func (s *stubCenterFinder) FindNearby(ctx context.Context, q geo.Query) ([]model.GeoResult, error) {
	return s.fn(ctx, q)
}

type stubShopFinder struct {
	fn func(ctx context.Context, deviceModel string, lat, lng float64) []model.RepairShop
}

func (s *stubShopFinder) FindShops(ctx context.Context, deviceModel string, lat, lng float64) []model.RepairShop {
	if s.fn == nil {
		return nil
	}
	return s.fn(ctx, deviceModel, lat, lng)
}

func testConfig() *config.Config {
	return &config.Config{
		Valuation: config.ValuationConfig{GoldPrice: 7000, CopperPrice: 0.9, SilverPrice: 90},
		Search:    config.SearchConfig{DefaultRadiusKm: 10, MaxResults: 20},
	}
}

type testEnv struct {
	store  *stubStore
	ai     *stubAI
	finder *stubCenterFinder
	shops  *stubShopFinder
	srv    *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store: &stubStore{},
		ai:    &stubAI{response: gemini.Response{Text: "stub response", Model: "gemini-1.5-flash-002"}},
		finder: &stubCenterFinder{fn: func(context.Context, geo.Query) ([]model.GeoResult, error) {
			return nil, nil
		}},
		shops: &stubShopFinder{},
	}
	env.srv = httptest.NewServer(New(env.store, env.ai, env.finder, env.shops, testConfig()).Router())
	t.Cleanup(env.srv.Close)
	return env
}

func (e *testEnv) get(t *testing.T, path string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(e.srv.URL + path)
	require.NoError(t, err)
	return decodeBody(t, resp)
}

func (e *testEnv) post(t *testing.T, path string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(e.srv.URL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) (int, map[string]any) {
	t.Helper()

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), "body: %s", raw)
	return resp.StatusCode, body
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.get(t, "/health")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestListCenters(t *testing.T) {
	env := newTestEnv(t)
	env.store.listCenters = func(context.Context) ([]model.Center, error) {
		return []model.Center{{ID: "c1", Name: "Green Cycle Hub", Latitude: 23.2, Longitude: 77.4}}, nil
	}

	status, body := env.get(t, "/api/centers")

	assert.Equal(t, http.StatusOK, status)
	centers := body["centers"].([]any)
	require.Len(t, centers, 1)
	assert.Equal(t, "Green Cycle Hub", centers[0].(map[string]any)["name"])
}

func TestCentersNearby_Success(t *testing.T) {
	env := newTestEnv(t)
	var gotQuery geo.Query
	env.finder.fn = func(_ context.Context, q geo.Query) ([]model.GeoResult, error) {
		gotQuery = q
		return []model.GeoResult{{Name: "Hub", Latitude: 23.2, Longitude: 77.4, Source: "google_places_nearby"}}, nil
	}

	status, body := env.get(t, "/api/centers/nearby?lat=23.2&lng=77.4&radius_km=5&country=in&sw_lat=22&sw_lng=76&ne_lat=24&ne_lng=78")

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, body["centers"].([]any), 1)
	require.NotNil(t, gotQuery.Lat)
	assert.InDelta(t, 23.2, *gotQuery.Lat, 1e-9)
	assert.InDelta(t, 5.0, gotQuery.RadiusKm, 1e-9)
	assert.Equal(t, "in", gotQuery.Country)
	require.NotNil(t, gotQuery.Bounds)
	assert.InDelta(t, 22.0, gotQuery.Bounds.SWLat, 1e-9)
}

func TestCentersNearby_DefaultRadius(t *testing.T) {
	env := newTestEnv(t)
	var gotQuery geo.Query
	env.finder.fn = func(_ context.Context, q geo.Query) ([]model.GeoResult, error) {
		gotQuery = q
		return nil, nil
	}

	status, _ := env.get(t, "/api/centers/nearby?lat=23.2&lng=77.4")

	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 10.0, gotQuery.RadiusKm, 1e-9)
}

func TestCentersNearby_Unresolvable(t *testing.T) {
	env := newTestEnv(t)
	env.finder.fn = func(context.Context, geo.Query) ([]model.GeoResult, error) {
		return nil, &geo.UnresolvableLocationError{Query: "Atlantis, India"}
	}

	status, body := env.get(t, "/api/centers/nearby?q=Atlantis&country=in")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Atlantis, India", body["query"])
	assert.Empty(t, body["centers"])
}

func TestCentersNearby_NoProvider(t *testing.T) {
	env := newTestEnv(t)
	env.finder.fn = func(context.Context, geo.Query) ([]model.GeoResult, error) {
		return nil, geo.ErrNoProvider
	}

	status, body := env.get(t, "/api/centers/nearby?lat=1&lng=1")

	assert.Equal(t, http.StatusPreconditionFailed, status)
	assert.Contains(t, body["error"], "no geo provider configured")
}

func TestCentersNearby_ProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.finder.fn = func(context.Context, geo.Query) ([]model.GeoResult, error) {
		return nil, errors.New("places: unexpected status 500")
	}

	status, _ := env.get(t, "/api/centers/nearby?lat=1&lng=1")

	assert.Equal(t, http.StatusBadGateway, status)
}

func TestEducation(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "Lead damages the nervous system.", Model: "gemini-1.5-pro-002"}

	status, body := env.post(t, "/api/education", map[string]string{"topic": "lead"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Lead damages the nervous system.", body["explanation"])
	assert.Equal(t, false, body["degraded"])
	assert.Contains(t, env.ai.lastPrompt, "'lead'")
}

func TestEducation_MissingTopic(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.post(t, "/api/education", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestEcoTip(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "Unplug chargers when idle."}

	status, body := env.get(t, "/api/eco-tip")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Unplug chargers when idle.", body["tip"])
	assert.NotEmpty(t, body["date"])
	assert.Contains(t, env.ai.lastPrompt, body["date"])
}

func TestQuiz_AlwaysFiveQuestions(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "totally unusable rambling"}

	status, body := env.get(t, "/api/quiz")

	assert.Equal(t, http.StatusOK, status)
	questions := body["questions"].([]any)
	require.Len(t, questions, 5)
	first := questions[0].(map[string]any)
	assert.Len(t, first["options"].([]any), 4)
}

func TestQuizScore(t *testing.T) {
	env := newTestEnv(t)

	questions := []model.QuizQuestion{
		{Prompt: "Q1", Options: fourOptions(), Answer: "A"},
		{Prompt: "Q2", Options: fourOptions(), Answer: "B"},
		{Prompt: "Q3", Options: fourOptions(), Answer: "C"},
	}
	status, body := env.post(t, "/api/quiz/score", map[string]any{
		"questions": questions,
		"answers":   []string{"A", "D", "C"},
	})

	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["score"])
	assert.EqualValues(t, 3, body["total"])
	scored := body["questions"].([]any)
	assert.Equal(t, "D", scored[1].(map[string]any)["user_choice"])
}

func fourOptions() []model.QuizOption {
	return []model.QuizOption{
		{Label: "A", Text: "a"}, {Label: "B", Text: "b"},
		{Label: "C", Text: "c"}, {Label: "D", Text: "d"},
	}
}

func TestDecision(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "RECOMMENDATION: Reuse\nStill works fine after a battery swap."}

	status, body := env.post(t, "/api/decision", map[string]string{"item": "old phone"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Reuse", body["decision"])
	assert.Equal(t, "Still works fine after a battery swap.", body["reason"])
}

func TestReuse_NeedsLocationWithoutCoordinates(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "RECOMMENDATION: Donate\nSomeone else can use it."}

	status, body := env.post(t, "/api/reuse", map[string]any{"model": "iPhone 8", "condition": "working", "age": "4"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Donate", body["recommendation"])
	assert.Equal(t, true, body["needs_location"])
	shops := body["shops"].([]any)
	require.Len(t, shops, 1)
	assert.Contains(t, shops[0].(map[string]any)["name"], "Enable location")
}

func TestReuse_WithCoordinatesFetchesShops(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "RECOMMENDATION: Repair\nA cheap fix."}
	var gotModel string
	env.shops.fn = func(_ context.Context, deviceModel string, lat, lng float64) []model.RepairShop {
		gotModel = deviceModel
		return []model.RepairShop{{Name: "QuickFix Phone Repair", Rating: "4.2"}}
	}

	status, body := env.post(t, "/api/reuse", map[string]any{
		"model": "iPhone 8", "lat": 23.2, "lng": 77.4,
	})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "iPhone 8", gotModel)
	shops := body["shops"].([]any)
	require.Len(t, shops, 1)
	assert.Equal(t, "QuickFix Phone Repair", shops[0].(map[string]any)["name"])
}

func TestReuse_SellSkipsShops(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "RECOMMENDATION: Sell\nStrong resale market."}

	status, body := env.post(t, "/api/reuse", map[string]any{"model": "MacBook Air"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Sell", body["recommendation"])
	assert.Equal(t, false, body["needs_location"])
	assert.Empty(t, body["shops"])
}

func TestReuse_UnrecognizedLabelFallsBackToRecycle(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "RECOMMENDATION: Reuse\nPass it on as-is."}

	status, body := env.post(t, "/api/reuse", map[string]any{"model": "iPhone 8"})

	// "Reuse" is not in the sell/donate/repair/recycle set, so the category
	// normalizes to Recycle and no shop lookup happens.
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Recycle", body["recommendation"])
	assert.Equal(t, false, body["needs_location"])
	assert.Empty(t, body["shops"])
}

func TestValue_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{
		Text: "Gold: 0.05 g, Copper: 12.3 g, Silver: 0.30 g. " +
			"Prices: Gold ₹7200 per g, Copper ₹0.9 per g, Silver ₹95 per g.",
	}

	status, body := env.post(t, "/api/value", map[string]any{"model": "iPhone 8", "age_years": 2})

	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 399.57, body["base_value"].(float64), 0.01)
	assert.InDelta(t, 0.9, body["depreciation_factor"].(float64), 1e-9)
	assert.InDelta(t, 359.61, body["estimated_payout"].(float64), 0.01)
	metals := body["metals"].(map[string]any)
	assert.InDelta(t, 12.3, metals["copper"].(float64), 1e-9)
}

func TestValue_DegradedFallsBackToBaselines(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: gemini.FallbackText, Degraded: true, Reason: "no api key configured"}

	status, body := env.post(t, "/api/value", map[string]any{"model": "iPhone 8", "age_years": 0})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["degraded"])
	assert.Zero(t, body["base_value"].(float64))
	prices := body["prices"].(map[string]any)
	assert.InDelta(t, 7000.0, prices["gold"].(float64), 1e-9)
}

func TestValue_NegativeAge(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.post(t, "/api/value", map[string]any{"model": "iPhone 8", "age_years": -1})

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHazard_MissingComponent(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.post(t, "/api/hazard", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCredits_UnknownDevice(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/api/credits", map[string]string{"device_model": "Nokia 3310"})

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "device model not found", body["error"])
}

func TestCredits_AnonymousNotSaved(t *testing.T) {
	env := newTestEnv(t)
	env.store.getDevice = func(_ context.Context, modelName string) (*model.Device, error) {
		return &model.Device{ID: "d1", ModelName: "iPhone 11", MetalValue: 1.5}, nil
	}
	env.store.addPoints = func(context.Context, string, int) (int, error) {
		t.Fatal("points must not be persisted for anonymous callers")
		return 0, nil
	}

	status, body := env.post(t, "/api/credits", map[string]string{"device_model": "iphone 11"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["saved"])
	assert.EqualValues(t, 15, body["points_awarded"])
	assert.NotContains(t, body, "balance")
}

func TestCredits_SavedWithUserID(t *testing.T) {
	env := newTestEnv(t)
	env.store.getDevice = func(context.Context, string) (*model.Device, error) {
		return &model.Device{ID: "d1", ModelName: "iPhone 11", MetalValue: 1.5}, nil
	}
	env.store.addPoints = func(_ context.Context, userID string, points int) (int, error) {
		assert.Equal(t, "user-1", userID)
		assert.Equal(t, 15, points)
		return 40, nil
	}

	status, body := env.post(t, "/api/credits", map[string]string{"device_model": "iPhone 11", "user_id": "user-1"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["saved"])
	assert.EqualValues(t, 40, body["balance"])
}

func TestCreatePickup(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/api/pickups", map[string]string{
		"name": "Asha", "email": "asha@example.com", "address": "12 Link Rd",
		"waste_type": "laptop", "drive_type": "community_drive",
		"pickup_date": "2026-09-15", "pickup_time": "10:30",
	})

	assert.Equal(t, http.StatusCreated, status)
	pickup := body["pickup"].(map[string]any)
	assert.Equal(t, "community_drive", pickup["drive_type"])
}

func TestCreatePickup_InvalidDriveType(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.post(t, "/api/pickups", map[string]string{
		"name": "Asha", "email": "a@b.c", "address": "x", "drive_type": "teleport",
	})

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCollectors_Filters(t *testing.T) {
	env := newTestEnv(t)
	env.ai.response = gemini.Response{Text: "Most e-waste in India flows through informal collectors."}

	status, body := env.get(t, "/api/collectors?verified_only=true")

	assert.Equal(t, http.StatusOK, status)
	collectors := body["collectors"].([]any)
	require.Len(t, collectors, 4)
	for _, c := range collectors {
		assert.Equal(t, true, c.(map[string]any)["verified"])
	}
	assert.Len(t, body["cities"].([]any), 6)
	assert.NotEmpty(t, body["insight"])

	status, body = env.get(t, "/api/collectors?city=mumbai")
	assert.Equal(t, http.StatusOK, status)
	collectors = body["collectors"].([]any)
	require.Len(t, collectors, 1)
	assert.Equal(t, "EcoCycle Mumbai", collectors[0].(map[string]any)["name"])
}

func TestNominateCollector(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.post(t, "/api/collectors/nominate", map[string]string{"name": "ScrapKing", "city": "Jaipur"})

	assert.Equal(t, http.StatusAccepted, status)
	assert.Contains(t, body["message"], "ScrapKing")

	status, _ = env.post(t, "/api/collectors/nominate", map[string]string{"name": "NoCity"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func challengeFixtures() []model.Challenge {
	return []model.Challenge{
		{ID: "ch1", Title: "Recycle 1 old phone", CO2Saved: 1.0, IsActive: true},
		{ID: "ch2", Title: "Donate a laptop", CO2Saved: 2.55, IsActive: true},
		{ID: "ch3", Title: "Organize a drive", CO2Saved: 5.0, IsActive: true},
		{ID: "ch4", Title: "Swap to LED bulbs", CO2Saved: 0.4, IsActive: true},
	}
}

func TestChallenges_SummaryWithBadge(t *testing.T) {
	env := newTestEnv(t)
	env.store.listChallenges = func(context.Context) ([]model.Challenge, error) {
		return challengeFixtures(), nil
	}
	env.store.listCompletedIDs = func(_ context.Context, userID string) ([]string, error) {
		assert.Equal(t, "user-1", userID)
		return []string{"ch1", "ch2", "ch3"}, nil
	}

	status, body := env.get(t, "/api/challenges?user_id=user-1")

	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["challenges"].([]any), 4)
	assert.Len(t, body["completed"].([]any), 3)
	assert.InDelta(t, 8.6, body["total_co2"].(float64), 1e-9) // 1.0+2.55+5.0 rounded to 1dp
	assert.EqualValues(t, 75, body["progress"])
	assert.Equal(t, "Green Influencer", body["badge_name"])
}

func TestChallenges_AnonymousNoBadge(t *testing.T) {
	env := newTestEnv(t)
	env.store.listChallenges = func(context.Context) ([]model.Challenge, error) {
		return challengeFixtures(), nil
	}

	status, body := env.get(t, "/api/challenges")

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["completed"])
	assert.Zero(t, body["total_co2"].(float64))
	assert.NotContains(t, body, "badge_name")
}

func TestCompleteChallenge(t *testing.T) {
	env := newTestEnv(t)
	env.store.listChallenges = func(context.Context) ([]model.Challenge, error) {
		return challengeFixtures(), nil
	}
	env.store.complete = func(_ context.Context, userID, challengeID string) (bool, error) {
		assert.Equal(t, "ch1", challengeID)
		return true, nil
	}
	env.store.listCompletedIDs = func(context.Context, string) ([]string, error) {
		return []string{"ch1"}, nil
	}

	status, body := env.post(t, "/api/challenges/complete", map[string]string{"user_id": "user-1", "challenge_id": "ch1"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["created"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, "Eco Starter", summary["badge_name"])
}

func TestCompleteChallenge_UnknownIDIsNoop(t *testing.T) {
	env := newTestEnv(t)
	env.store.complete = func(context.Context, string, string) (bool, error) {
		return false, nil
	}

	status, body := env.post(t, "/api/challenges/complete", map[string]string{"user_id": "user-1", "challenge_id": "nope"})

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["created"])
}

func TestCompleteChallenge_RequiresUserID(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.post(t, "/api/challenges/complete", map[string]string{"challenge_id": "ch1"})

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.store.listCenters = func(context.Context) ([]model.Center, error) {
		return []model.Center{{ID: "c1", Name: "Green Cycle Hub"}}, nil
	}
	env.store.getPoints = func(_ context.Context, userID string) (int, error) {
		assert.Equal(t, "user-1", userID)
		return 40, nil
	}
	env.store.listChallenges = func(context.Context) ([]model.Challenge, error) {
		return challengeFixtures(), nil
	}
	env.store.listCompletedIDs = func(context.Context, string) ([]string, error) {
		return []string{"ch1"}, nil
	}

	status, body := env.get(t, "/api/dashboard?user_id=user-1")

	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["centers"].([]any), 1)
	assert.EqualValues(t, 40, body["points"])
	challenges := body["challenges"].(map[string]any)
	assert.EqualValues(t, 25, challenges["progress"])
}

func TestDashboard_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.store.listCenters = func(context.Context) ([]model.Center, error) {
		return nil, errors.New("db down")
	}

	status, _ := env.get(t, "/api/dashboard")

	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestDashboard_FailureCancelsChallengeReads(t *testing.T) {
	env := newTestEnv(t)
	env.store.listCenters = func(context.Context) ([]model.Center, error) {
		return nil, errors.New("db down")
	}
	challengeCanceled := make(chan struct{})
	env.store.listChallenges = func(ctx context.Context) ([]model.Challenge, error) {
		select {
		case <-ctx.Done():
			close(challengeCanceled)
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
			return nil, errors.New("challenge read outlived the failed dashboard load")
		}
	}

	status, _ := env.get(t, "/api/dashboard")

	assert.Equal(t, http.StatusInternalServerError, status)
	select {
	case <-challengeCanceled:
	default:
		t.Fatal("challenge read context was not canceled")
	}
}
