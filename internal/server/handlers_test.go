package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caleb/scholarmatch/internal/engine"
	"github.com/caleb/scholarmatch/internal/scoring"
	"github.com/caleb/scholarmatch/internal/types"
	"github.com/caleb/scholarmatch/internal/validation"
)

type fakeStore struct {
	students     map[uuid.UUID]*types.StudentProfile
	catalog      []types.Scholarship
	fixtures     []types.Fixture
	interactions []types.InteractionEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{students: make(map[uuid.UUID]*types.StudentProfile)}
}

func (f *fakeStore) GetStudentProfile(_ context.Context, id uuid.UUID) (*types.StudentProfile, error) {
	return f.students[id], nil
}

func (f *fakeStore) ListScholarships(_ context.Context, includeInactive bool) ([]types.Scholarship, error) {
	var out []types.Scholarship
	for _, s := range f.catalog {
		if s.IsActive || includeInactive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertMatch(_ context.Context, match *types.Match) error {
	match.ID = uuid.New()
	return nil
}

func (f *fakeStore) InsertScoringFactors(_ context.Context, _ *types.ScoringFactors) error {
	return nil
}

func (f *fakeStore) InsertInteractions(_ context.Context, events []types.InteractionEvent) error {
	f.interactions = append(f.interactions, events...)
	return nil
}

func (f *fakeStore) InteractionMetrics(_ context.Context, _, _ time.Time) (*types.RecommendationMetrics, error) {
	return &types.RecommendationMetrics{TotalRecommendations: 7}, nil
}

func (f *fakeStore) ListActiveFixtures(_ context.Context) ([]types.Fixture, error) {
	return f.fixtures, nil
}

func (f *fakeStore) InsertValidationRun(_ context.Context, _ *types.ValidationRun) error {
	return nil
}

func (f *fakeStore) CountScholarships(_ context.Context) (int, error) {
	return len(f.catalog), nil
}

func newTestServer(store *fakeStore) *Server {
	eng := engine.New(store, scoring.NewScorer(nil, nil), nil, 2)
	validator := validation.New(eng, store, nil)
	return New(Config{Port: 8080}, eng, validator, nil)
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(newFakeStore())

	rec := doRequest(s, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestHandleGenerateRecommendations_InvalidID(t *testing.T) {
	s := newTestServer(newFakeStore())

	rec := doRequest(s, http.MethodPost, "/students/not-a-uuid/recommendations", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerateRecommendations_UnknownStudentIsEmpty(t *testing.T) {
	s := newTestServer(newFakeStore())

	rec := doRequest(s, http.MethodPost, "/students/"+uuid.NewString()+"/recommendations", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count           int           `json:"count"`
		Recommendations []types.Match `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
	assert.Empty(t, resp.Recommendations)
}

func TestHandleGenerateRecommendations_ReturnsMatches(t *testing.T) {
	store := newFakeStore()
	gpa := 3.9
	student := &types.StudentProfile{
		ID:     uuid.New(),
		UserID: uuid.New(),
		GPA:    &gpa,
		Major:  "Computer Science",
	}
	store.students[student.ID] = student
	store.catalog = []types.Scholarship{{
		ID:       uuid.New(),
		Title:    "Open Award",
		IsActive: true,
	}}
	s := newTestServer(store)

	rec := doRequest(s, http.MethodPost, "/students/"+student.ID.String()+"/recommendations",
		`{"top_n": 5, "min_score": 10}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count           int           `json:"count"`
		Recommendations []types.Match `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, store.catalog[0].ID, resp.Recommendations[0].ScholarshipID)
	assert.NotZero(t, resp.Recommendations[0].MatchScore)
}

func TestHandleTrackInteractions(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	body := `{
		"user_id": "` + uuid.NewString() + `",
		"student_id": "` + uuid.NewString() + `",
		"scholarship_ids": ["` + uuid.NewString() + `"],
		"interaction_type": "save",
		"session_id": "session-1"
	}`

	rec := doRequest(s, http.MethodPost, "/interactions", body)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, store.interactions, 1)
	assert.Equal(t, types.InteractionSave, store.interactions[0].InteractionType)
}

func TestHandleTrackInteractions_UnknownType(t *testing.T) {
	s := newTestServer(newFakeStore())

	body := `{
		"user_id": "` + uuid.NewString() + `",
		"student_id": "` + uuid.NewString() + `",
		"scholarship_ids": ["` + uuid.NewString() + `"],
		"interaction_type": "bookmark",
		"session_id": "session-1"
	}`

	rec := doRequest(s, http.MethodPost, "/interactions", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTrackInteractions_MissingFields(t *testing.T) {
	s := newTestServer(newFakeStore())

	rec := doRequest(s, http.MethodPost, "/interactions", `{"interaction_type": "view"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRecommendationMetrics(t *testing.T) {
	s := newTestServer(newFakeStore())

	rec := doRequest(s, http.MethodGet, "/metrics/recommendations", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var metrics types.RecommendationMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metrics))
	assert.Equal(t, 7, metrics.TotalRecommendations)
}

func TestHandleRecommendationMetrics_BadWindow(t *testing.T) {
	s := newTestServer(newFakeStore())

	rec := doRequest(s, http.MethodGet, "/metrics/recommendations?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodGet,
		"/metrics/recommendations?from=2026-02-01T00:00:00Z&to=2026-01-01T00:00:00Z", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRunValidation_NoFixtures(t *testing.T) {
	s := newTestServer(newFakeStore())

	rec := doRequest(s, http.MethodPost, "/validation/run", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count   int                 `json:"count"`
		Results []validation.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Zero(t, resp.Count)
}

func TestHandleValidationSummary(t *testing.T) {
	s := newTestServer(newFakeStore())

	rec := doRequest(s, http.MethodGet, "/validation/summary", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var summary validation.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Zero(t, summary.TotalFixtures)
}
