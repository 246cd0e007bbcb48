package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lucasrodor/projeto-financeiro/internal/dashboard"
	"github.com/lucasrodor/projeto-financeiro/internal/session"
	"github.com/lucasrodor/projeto-financeiro/pkg/logger"
)

// Handler serves the dashboard pages, the JSON API and the chart stream
// ⭐ SSOT: handlers HTTP do dashboard só nesta struct
type Handler struct {
	service *dashboard.Service
	pages   *pages
	logger  *logger.Logger
}

// NewHandler parses the embedded templates and prose
func NewHandler(service *dashboard.Service, log *logger.Logger) (*Handler, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}

	return &Handler{
		service: service,
		pages:   p,
		logger:  log,
	}, nil
}

// errorResponse is the JSON body of a failed action
type errorResponse struct {
	Error string         `json:"error"`
	Kind  dashboard.Kind `json:"kind"`
}

// currentSession returns the request session (set by the session middleware)
func currentSession(r *http.Request) *session.Session {
	if s, ok := session.FromContext(r.Context()); ok {
		return s
	}
	// sem middleware (testes de handler isolado)
	return session.New()
}

// statusFor maps an action error to its HTTP status
func statusFor(err error) int {
	if errors.Is(err, dashboard.ErrHistoryDisabled) {
		return http.StatusServiceUnavailable
	}

	switch dashboard.Classify(err) {
	case dashboard.KindValidation:
		return http.StatusBadRequest
	case dashboard.KindWarning:
		return http.StatusNotFound
	case dashboard.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondActionError logs err at the level of its kind and writes the JSON error
func (h *Handler) respondActionError(w http.ResponseWriter, r *http.Request, err error) {
	kind := dashboard.Classify(err)
	log := h.logger.WithSession(currentSession(r).ID).WithError(err).WithField("path", r.URL.Path)

	switch kind {
	case dashboard.KindValidation, dashboard.KindWarning:
		log.Debug("Action rejected")
	case dashboard.KindNetwork:
		log.Warn("Provider request failed")
	default:
		log.Error("Action failed")
	}

	respondJSON(w, statusFor(err), errorResponse{Error: dashboard.Message(err), Kind: kind})
}

// splitList accepts repeated values and comma-separated lists
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
