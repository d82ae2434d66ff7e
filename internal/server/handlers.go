package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mentorque/Extension-Free-backend/internal/classifier"
	"github.com/mentorque/Extension-Free-backend/internal/db"
	"github.com/mentorque/Extension-Free-backend/internal/ingestion"
	"github.com/mentorque/Extension-Free-backend/internal/server/middleware"
	"github.com/mentorque/Extension-Free-backend/internal/skills"
	"github.com/mentorque/Extension-Free-backend/internal/types"
	"github.com/mentorque/Extension-Free-backend/internal/vocabulary"
)

// ExtractRequest is the body of POST /extract-skills. When Text is empty and
// URL is set, the posting is fetched first.
type ExtractRequest struct {
	Text             string `json:"text" validate:"max=200000"`
	URL              string `json:"url,omitempty" validate:"omitempty,url"`
	UseFuzzy         *bool  `json:"use_fuzzy,omitempty"`
	UseContextFilter *bool  `json:"use_context_filter,omitempty"`
}

// ExtractResponse is the body returned by POST /extract-skills.
type ExtractResponse struct {
	Skills        []string               `json:"skills"`
	Matches       []types.ExtractedSkill `json:"matches"`
	Count         int                    `json:"count"`
	Stats         types.ExtractionStats  `json:"stats"`
	Important     []string               `json:"important_skills"`
	LessImportant []string               `json:"less_important_skills"`
	NonTechnical  []string               `json:"non_technical_skills"`
	Source        *ingestion.Metadata    `json:"source,omitempty"`
	RunID         string                 `json:"run_id,omitempty"`
}

// ClassifyRequest is the body of POST /classify.
type ClassifyRequest struct {
	Skill string `json:"skill" validate:"required,max=200"`
}

// ClassifyResponse is a verdict plus whether the semantic classifier
// produced it.
type ClassifyResponse struct {
	types.ClassificationVerdict
	ClassifierAvailable bool `json:"classifier_available"`
}

// SemanticMatchRequest is the body of POST /semantic-match.
type SemanticMatchRequest struct {
	JDSkill      string   `json:"jd_skill" validate:"required,max=200"`
	ResumeSkills []string `json:"resume_skills" validate:"required,min=1,max=500,dive,required,max=200"`
}

// SemanticMatchResponse holds the closest resume skill, or null.
type SemanticMatchResponse struct {
	Match *skills.ResumeMatch `json:"match"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status              string `json:"status"`
	VocabularySize      int    `json:"vocabulary_size"`
	ClassifierAvailable bool   `json:"classifier_available"`
	History             bool   `json:"history"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Vocabulary vocabulary.Stats  `json:"vocabulary"`
	Classifier *classifier.Stats `json:"classifier"`
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Field: "body", Message: fmt.Sprintf("larger than %d bytes", tooLarge.Limit)}
		}
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: fe.Field(), Message: fmt.Sprintf("failed %q check", fe.Tag())}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	start := time.Now()
	text, source := req.Text, "api"

	var meta *ingestion.Metadata
	if strings.TrimSpace(text) == "" && req.URL != "" {
		var err error
		text, meta, err = s.fetch(ctx, req.URL, ingestion.Options{UseBrowser: s.cfg.UseBrowser, Logger: s.logger})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		source = req.URL
	}

	opts := skills.DefaultOptions()
	if req.UseFuzzy != nil {
		opts.UseFuzzy = *req.UseFuzzy
	}
	if req.UseContextFilter != nil {
		opts.UseContextFilter = *req.UseContextFilter
	}

	result, err := s.engine.Extract(ctx, text, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	extractedSkills.Observe(float64(len(result.Skills)))

	resp := newExtractResponse(result)
	resp.Source = meta

	if s.history != nil && strings.TrimSpace(text) != "" {
		run := db.NewExtractionRun(source, text, result, time.Since(start))
		if err := s.history.RecordExtraction(ctx, run); err != nil {
			s.logger.Warn("recording extraction failed",
				"request_id", middleware.RequestIDFrom(ctx), "error", err)
		} else {
			resp.RunID = run.ID.String()
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

func newExtractResponse(result *types.ExtractionResult) ExtractResponse {
	resp := ExtractResponse{
		Skills:        result.Names(),
		Matches:       result.Skills,
		Count:         len(result.Skills),
		Stats:         result.Stats,
		Important:     result.Important,
		LessImportant: result.LessImportant,
		NonTechnical:  result.NonTechnical,
	}
	if resp.Matches == nil {
		resp.Matches = []types.ExtractedSkill{}
	}
	for _, list := range []*[]string{&resp.Important, &resp.LessImportant, &resp.NonTechnical} {
		if *list == nil {
			*list = []string{}
		}
	}
	return resp
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	verdict, err := s.engine.ClassifyTier(r.Context(), strings.TrimSpace(req.Skill))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ClassifyResponse{
		ClassificationVerdict: verdict,
		ClassifierAvailable:   s.engine.ClassifierAvailable(),
	})
}

func (s *Server) handleSemanticMatch(w http.ResponseWriter, r *http.Request) {
	var req SemanticMatchRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	match, err := s.engine.SemanticMatch(r.Context(), req.JDSkill, req.ResumeSkills)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SemanticMatchResponse{Match: match})
}

func (s *Server) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "extraction history"})
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.writeError(w, r, &ErrValidation{Field: "limit", Message: "must be between 1 and 500"})
			return
		}
		limit = n
	}

	runs, err := s.history.ListExtractions(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*db.ExtractionRun{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, r, &ErrUnavailable{Feature: "extraction history"})
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "not a UUID"})
		return
	}

	run, err := s.history.GetExtraction(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleHealth reports 503 until the vocabulary has loaded.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	vocab := s.engine.Vocabulary()
	resp := HealthResponse{
		Status:              "ok",
		VocabularySize:      vocab.Len(),
		ClassifierAvailable: s.engine.ClassifierAvailable(),
		History:             s.history != nil,
	}
	status := http.StatusOK
	if !vocab.Loaded() {
		resp.Status = "loading"
		status = http.StatusServiceUnavailable
	}
	s.jsonResponse(w, status, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	resp := StatsResponse{Vocabulary: s.engine.Vocabulary().Stats()}
	if s.classifier != nil {
		stats := s.classifier.Stats()
		resp.Classifier = &stats
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
