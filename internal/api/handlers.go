package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abhisek/drillsergeant/internal/content"
	"github.com/abhisek/drillsergeant/internal/session"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type handlers struct {
	svc    Orchestrator
	logger *zap.Logger
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) generateSession(w http.ResponseWriter, r *http.Request) {
	var req GenerateSessionRequest
	if !h.decode(w, r, &req) {
		return
	}
	difficulty, err := content.ParseDifficulty(req.Difficulty)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	examDate, err := parseDate(req.ExamDate)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "exam_date must be YYYY-MM-DD")
		return
	}

	s, err := h.svc.CreateSession(r.Context(), difficulty, examDate)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toSessionResponse(s))
}

func (h *handlers) analyzeMistakes(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}
	answers := make(map[int]string, len(req.Answers))
	for k, v := range req.Answers {
		id, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("answers: question id %q is not an integer", k))
			return
		}
		if _, dup := answers[id]; dup {
			h.respondError(w, http.StatusBadRequest, fmt.Sprintf("answers: question id %d appears more than once", id))
			return
		}
		answers[id] = v
	}

	results, err := h.svc.AnalyzeAnswers(r.Context(), req.SessionID, answers)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toAnalyzeResults(results))
}

func (h *handlers) sessionSummary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if !h.decode(w, r, &req) {
		return
	}
	examDate, err := parseDate(req.ExamDate)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "exam_date must be YYYY-MM-DD")
		return
	}
	traps := req.TrapsIdentified
	if traps == nil {
		traps = []string{}
	}

	payload := h.svc.ComposeSummary(r.Context(), session.SummaryRequest{
		OriginalScore:   req.OriginalScore,
		FinalMastery:    req.FinalMastery,
		TrapsIdentified: traps,
		ExamDate:        examDate,
	})
	h.respondJSON(w, http.StatusOK, SummaryResponse{
		OriginalScore:   req.OriginalScore,
		FinalMastery:    req.FinalMastery,
		TrapsIdentified: traps,
		CoachMessage:    CoachMessageDTO{Headline: payload.Headline, Body: payload.Body},
	})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, formatValidationError(err))
		return false
	}
	return true
}

func (h *handlers) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, session.ErrContentSourcing):
		h.logger.Error("content sourcing failed", zap.Error(err))
		h.respondError(w, http.StatusBadGateway, "could not source session content")
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]any{
		"error":   true,
		"message": message,
		"code":    status,
	})
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "datetime":
			msgs = append(msgs, field+" must be YYYY-MM-DD")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
