package analyses

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/pulse/pkg/formatting"
	"github.com/JaimeStill/pulse/pkg/handlers"
	"github.com/JaimeStill/pulse/pkg/pagination"
	"github.com/JaimeStill/pulse/pkg/routes"
)

// Handler provides HTTP endpoints for analysis operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	maxBody    int64
}

// AnalyzeRequest is the accepted body of POST /analyze.
type AnalyzeRequest struct {
	Text     *string         `json:"text"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// BatchRequest is the accepted body of POST /batch_analyze.
type BatchRequest struct {
	Texts []string `json:"texts"`
}

// NewHandler creates a Handler. A non-positive maxBody disables the body limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxBody int64,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "analyses"),
		pagination: pagination,
		maxBody:    maxBody,
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Middleware: []func(http.Handler) http.Handler{h.limitBody},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze},
			{Method: "POST", Pattern: "/batch_analyze", Handler: h.AnalyzeBatch},
		},
		Children: []routes.Group{
			{
				Prefix: "/analyses",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "GET", Pattern: "/export", Handler: h.Export},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find},
				},
			},
		},
	}
}

func (h *Handler) limitBody(next http.Handler) http.Handler {
	if h.maxBody <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
		next.ServeHTTP(w, r)
	})
}

func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %s", ErrBodyTooLarge, formatting.FormatBytes(tooLarge.Limit, 0))
		}
		return invalid(ReasonMalformed, fmt.Sprintf("malformed JSON body: %v", err))
	}
	return nil
}

// Analyze classifies and stores a single piece of feedback.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decode(r, &req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if req.Text == nil {
		err := invalid(ReasonMissing, "text field is required")
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	metadata, err := normalizeMetadata(req.Metadata)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	a, err := h.sys.Analyze(r.Context(), AnalyzeCommand{Text: *req.Text, Metadata: metadata})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

// AnalyzeBatch classifies each text independently and reports a per-item outcome.
func (h *Handler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decode(r, &req); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if req.Texts == nil {
		err := invalid(ReasonMissing, "texts field is required")
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.AnalyzeBatch(r.Context(), BatchCommand{Texts: req.Texts})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// List returns a paginated list of analyses with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single analysis by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid analysis id: %w", err))
		return
	}

	a, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

// Export returns every analysis in insertion order as a downloadable JSON array.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.Export(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="analyses.json"`)
	handlers.RespondJSON(w, http.StatusOK, items)
}

// normalizeMetadata accepts a JSON object or null. Null and {} are stored as absent.
func normalizeMetadata(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, invalid(ReasonMalformed, "metadata must be a JSON object")
	}

	var obj map[string]any
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, invalid(ReasonMalformed, "metadata must be a JSON object")
	}
	if len(obj) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, invalid(ReasonMalformed, "metadata must be a JSON object")
	}
	return buf.Bytes(), nil
}
