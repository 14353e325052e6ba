package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/caleb/scholarmatch/internal/engine"
	"github.com/caleb/scholarmatch/internal/types"
)

var validate = validator.New()

// generateRequest is the optional body of POST /students/{id}/recommendations.
type generateRequest struct {
	TopN             int    `json:"top_n" validate:"omitempty,min=1,max=100"`
	MinScore         int    `json:"min_score" validate:"omitempty,min=0,max=100"`
	IncludeInactive  bool   `json:"include_inactive"`
	TrackInteraction bool   `json:"track_interaction"`
	SessionID        string `json:"session_id"`
}

// handleGenerateRecommendations generates and persists ranked recommendations
// for a student. An unknown student yields an empty list, not an error.
func (s *Server) handleGenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: "invalid student id"})
		return
	}

	opts := engine.DefaultOptions()
	if r.ContentLength > 0 {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, &ErrBadRequest{Message: "invalid request body"})
			return
		}
		if err := validate.Struct(&req); err != nil {
			s.errorResponse(w, &ErrValidation{Field: "body", Message: err.Error()})
			return
		}
		if req.TopN > 0 {
			opts.TopN = req.TopN
		}
		if req.MinScore > 0 {
			opts.MinScore = req.MinScore
		}
		opts.IncludeInactive = req.IncludeInactive
		opts.TrackInteraction = req.TrackInteraction
		opts.SessionID = req.SessionID
	}

	matches, err := s.engine.GenerateRecommendations(r.Context(), studentID, opts)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"student_id":      studentID,
		"count":           len(matches),
		"recommendations": matches,
	})
}

// interactionRequest is the body of POST /interactions.
type interactionRequest struct {
	UserID          uuid.UUID   `json:"user_id" validate:"required"`
	StudentID       uuid.UUID   `json:"student_id" validate:"required"`
	ScholarshipIDs  []uuid.UUID `json:"scholarship_ids" validate:"required,min=1"`
	InteractionType string      `json:"interaction_type" validate:"required"`
	SessionID       string      `json:"session_id" validate:"required"`
}

// handleTrackInteractions records recommendation interaction events.
// Recording is best-effort; the handler acknowledges acceptance rather than
// confirming the write.
func (s *Server) handleTrackInteractions(w http.ResponseWriter, r *http.Request) {
	var req interactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrBadRequest{Message: "invalid request body"})
		return
	}
	if err := validate.Struct(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	interactionType, err := types.ParseInteractionType(req.InteractionType)
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "interaction_type", Message: err.Error()})
		return
	}

	s.engine.TrackInteraction(r.Context(), req.UserID, req.StudentID, req.ScholarshipIDs, interactionType, req.SessionID)
	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleRecommendationMetrics returns engagement metrics over a window. The
// window defaults to the last 30 days; override with from/to RFC3339 query
// parameters.
func (s *Server) handleRecommendationMetrics(w http.ResponseWriter, r *http.Request) {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)

	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			s.errorResponse(w, &ErrBadRequest{Message: "invalid from timestamp, expected RFC3339"})
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			s.errorResponse(w, &ErrBadRequest{Message: "invalid to timestamp, expected RFC3339"})
			return
		}
	}
	if !from.Before(to) {
		s.errorResponse(w, &ErrBadRequest{Message: "from must be before to"})
		return
	}

	metrics, err := s.engine.RecommendationMetrics(r.Context(), from, to)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, metrics)
}

// validationRequest is the optional body of POST /validation/run.
type validationRequest struct {
	TopN int `json:"top_n" validate:"omitempty,min=1,max=100"`
}

// handleRunValidation runs every active fixture through the engine and
// returns the per-fixture results. The top-N cutoff can come from the body
// or a top_n query parameter.
func (s *Server) handleRunValidation(w http.ResponseWriter, r *http.Request) {
	var req validationRequest
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errorResponse(w, &ErrBadRequest{Message: "invalid top_n parameter"})
			return
		}
		req.TopN = n
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, &ErrBadRequest{Message: "invalid request body"})
			return
		}
		if err := validate.Struct(&req); err != nil {
			s.errorResponse(w, &ErrValidation{Field: "body", Message: err.Error()})
			return
		}
	}

	results, err := s.validator.ValidateAllFixtures(r.Context(), req.TopN)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

// handleValidationSummary runs the fixture suite and returns the aggregate
// health report.
func (s *Server) handleValidationSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.validator.GenerateSummaryReport(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}
