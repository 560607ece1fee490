package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/JMuoc/DatavizPAC3/internal/app"
	"github.com/JMuoc/DatavizPAC3/internal/domain"
	"github.com/JMuoc/DatavizPAC3/internal/playback"
)

type Handlers struct {
	Q     *app.QueryService
	Story *app.StoryService

	// presentation/playback parameters from config
	ShareFloorPct float64
	TopN          int
	MinGroup      int
	FramesPerSec  float64
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	// regular chart endpoints run under the request timeout
	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(15 * time.Second))
		r.Get("/v1/story", h.story)
		r.Get("/v1/summary", h.summary)
		r.Get("/v1/charts/class-share", h.classShare)
		r.Get("/v1/charts/continent-share", h.continentShare)
		r.Get("/v1/charts/adr-monthly", h.adrMonthly)
		r.Get("/v1/charts/international-monthly", h.internationalMonthly)
		r.Get("/v1/charts/top-countries", h.topCountries)
		r.Get("/v1/map/dates", h.mapDates)
		r.Get("/v1/map/snapshot", h.mapSnapshot)
	})

	// the playback stream outlives any sane request timeout; it stops when
	// the client goes away
	s.mux.Get("/v1/map/frames", h.mapFrames)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps domain errors onto problem responses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeProblem(w, http.StatusBadRequest, "Invalid Argument", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		writeProblem(w, http.StatusInternalServerError, "Internal Error", err.Error())
	}
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

// writeJSON sends v with an ETag, short-circuiting on If-None-Match. The
// dataset never changes after startup, so ETags stay valid for the whole
// process lifetime.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// yearParam defaults to the latest year in the data.
func (h *Handlers) yearParam(r *http.Request) (int, error) {
	ys := r.URL.Query().Get("year")
	if ys == "" {
		return h.Q.Dataset().LastDate.Year(), nil
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, domain.ErrInvalidArgument
	}
	return y, nil
}

func (h *Handlers) story(w http.ResponseWriter, r *http.Request) {
	st, err := h.Story.Build(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, st)
}

func (h *Handlers) summary(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid year", "year must be an integer")
		return
	}
	sum, err := h.Q.Summary(r.Context(), year, h.ShareFloorPct)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, sum)
}

func (h *Handlers) classShare(w http.ResponseWriter, r *http.Request) {
	h.share(w, r, "class")
}

func (h *Handlers) continentShare(w http.ResponseWriter, r *http.Request) {
	h.share(w, r, "continent")
}

func (h *Handlers) share(w http.ResponseWriter, r *http.Request, column string) {
	year, err := h.yearParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid year", "year must be an integer")
		return
	}
	out, err := h.Q.Share(r.Context(), year, column)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) adrMonthly(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.MonthlyMean(r.Context(), "adr")
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) internationalMonthly(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.MonthlyShare(r.Context(), "class", domain.ClassInternational)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) topCountries(w http.ResponseWriter, r *http.Request) {
	year, err := h.yearParam(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid year", "year must be an integer")
		return
	}
	n := h.TopN
	if ns := r.URL.Query().Get("n"); ns != "" {
		v, err := strconv.Atoi(ns)
		if err != nil || v <= 0 || v > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid n", "n must be an integer between 1 and 100")
			return
		}
		n = v
	}
	out, err := h.Q.TopCountries(r.Context(), year, n, h.MinGroup)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) mapDates(w http.ResponseWriter, r *http.Request) {
	ds := h.Q.Dataset()
	dates := make([]string, len(ds.Dates))
	for i, d := range ds.Dates {
		dates[i] = d.Format("2006-01-02")
	}
	writeJSON(w, r, dates)
}

func (h *Handlers) mapSnapshot(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeProblem(w, http.StatusBadRequest, "Missing date", "date=YYYY-MM-DD is required")
		return
	}
	asOf, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid date", "date must be YYYY-MM-DD")
		return
	}
	writeJSON(w, r, h.Q.Snapshot(r.Context(), asOf, h.MinGroup))
}

// mapFrames streams the whole playback as NDJSON, one cumulative snapshot
// per distinct date, paced at the configured frame rate. The request
// context cancels the run when the client disconnects.
func (h *Handlers) mapFrames(w http.ResponseWriter, r *http.Request) {
	ds := h.Q.Dataset()
	player := playback.New(ds, func(asOf time.Time) domain.Snapshot {
		return h.Q.Snapshot(r.Context(), asOf, h.MinGroup)
	}, h.FramesPerSec)

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	enc := json.NewEncoder(w)
	err := player.Run(r.Context(), func(frame domain.Snapshot) error {
		if err := enc.Encode(frame); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("playback stream aborted")
	}
}
