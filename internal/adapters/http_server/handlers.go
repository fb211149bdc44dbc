package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"coffee_persona/internal/app"
	"coffee_persona/internal/domain"
)

const maxListLimit = 500

type Handlers struct {
	Q    *app.QueryService
	TopN int // default size of /v1/recommendations
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/runs/latest", h.latestRun)
	s.mux.Get("/v1/venues", h.listVenues)
	s.mux.Get("/v1/venues/{id}", h.getVenue)
	s.mux.Get("/v1/recommendations", h.recommendations)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeQueryError maps repository misses to 404 and everything else to 500.
func writeQueryError(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
		return
	}
	log.Error().Err(err).Str("resource", what).Msg("query failed")
	writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON sends v with a weak ETag and answers 304 when the client already has it.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// parseLimit returns def when the parameter is absent.
func parseLimit(r *http.Request, def, upper int) (int, bool) {
	ls := r.URL.Query().Get("limit")
	if ls == "" {
		return def, true
	}
	l, err := strconv.Atoi(ls)
	if err != nil || l <= 0 || l > upper {
		return 0, false
	}
	return l, true
}

func parseSegment(r *http.Request) (*domain.Segment, error) {
	v := r.URL.Query().Get("segment")
	if v == "" {
		return nil, nil
	}
	seg, err := domain.ParseSegment(v)
	if err != nil {
		return nil, err
	}
	return &seg, nil
}

func (h *Handlers) latestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.Q.LatestRun(r.Context())
	if err != nil {
		writeQueryError(w, err, "analysis run")
		return
	}
	writeJSON(w, r, run)
}

func (h *Handlers) listVenues(w http.ResponseWriter, r *http.Request) {
	seg, err := parseSegment(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid segment", err.Error())
		return
	}
	limit, ok := parseLimit(r, 0, maxListLimit)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
		return
	}
	out, err := h.Q.ListVenues(r.Context(), seg, limit)
	if err != nil {
		writeQueryError(w, err, "analysis run")
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getVenue(w http.ResponseWriter, r *http.Request) {
	vp, err := h.Q.GetVenue(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeQueryError(w, err, "venue")
		return
	}
	writeJSON(w, r, vp)
}

func (h *Handlers) recommendations(w http.ResponseWriter, r *http.Request) {
	seg, err := parseSegment(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid segment", err.Error())
		return
	}
	if seg == nil {
		writeProblem(w, http.StatusBadRequest, "Missing segment", "segment is required")
		return
	}
	limit, ok := parseLimit(r, h.TopN, 50)
	if !ok {
		writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 50")
		return
	}
	out, err := h.Q.Recommend(r.Context(), *seg, limit)
	if err != nil {
		writeQueryError(w, err, "analysis run")
		return
	}
	writeJSON(w, r, out)
}
