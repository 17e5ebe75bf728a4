package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"road_simplify/pkg/export"
	"road_simplify/pkg/geo"
	"road_simplify/pkg/graph"
	"road_simplify/pkg/metrics"
	"road_simplify/pkg/pipeline"
	"road_simplify/pkg/spatial"
)

const defaultMaxBody = 64 << 20

// HandlerOptions configures the handlers.
type HandlerOptions struct {
	Separator    rune  // record separator for simplify/discretize bodies
	MaxBodyBytes int64 // request body limit for simplify/discretize
	Logger       *log.Logger
}

// Handlers holds the HTTP handlers and their dependencies. The loaded graph
// is only read, so handlers may run concurrently.
type Handlers struct {
	graph   *graph.Graph
	index   *spatial.Index
	stats   StatsResponse
	sep     rune
	maxBody int64
	logger  *log.Logger
}

// NewHandlers creates handlers serving g. A nil g serves an empty graph.
func NewHandlers(g *graph.Graph, opts HandlerOptions) *Handlers {
	if g == nil {
		g = graph.New()
	}
	if opts.Separator == 0 {
		opts.Separator = graph.DefaultSeparator
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	snap := metrics.Collect(g)
	return &Handlers{
		graph: g,
		index: spatial.New(g),
		stats: StatsResponse{
			NumNodes:    snap.Nodes,
			NumLinks:    snap.Links,
			Degree:      snap.Degree,
			Substitutes: snap.Substitutes,
		},
		sep:     opts.Separator,
		maxBody: opts.MaxBodyBytes,
		logger:  opts.Logger,
	}
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.stats)
}

// HandleNearest handles GET /api/v1/nearest?lat=&lng=.
func (h *Handlers) HandleNearest(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "lat")
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "lng")
		return
	}
	ll := LatLngJSON{Lat: lat, Lng: lng}
	if err := validateCoord(ll); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid_coordinates", "", err.Error())
		return
	}

	id, meters, ok := h.index.Nearest(geo.Coordinate{Lon: lng, Lat: lat})
	if !ok {
		writeError(w, http.StatusNotFound, "no_nodes", "")
		return
	}
	c := h.graph.Coord(id)
	writeJSON(w, NearestResponse{
		ID:             id,
		Location:       LatLngJSON{Lat: c.Lat, Lng: c.Lon},
		Degree:         h.graph.Degree(id),
		DistanceMeters: meters,
	})
}

// HandleGeoJSON handles GET /api/v1/geojson.
func (h *Handlers) HandleGeoJSON(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteGeoJSON(&buf, h.graph); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(buf.Bytes())
}

// HandleSimplify handles POST /api/v1/simplify?delta=&seed=. The body is a
// record file; the response is the simplified record file.
func (h *Handlers) HandleSimplify(w http.ResponseWriter, r *http.Request) {
	delta, ok := parseDelta(w, r, false)
	if !ok {
		return
	}
	var seed uint64
	if s := r.URL.Query().Get("seed"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "seed")
			return
		}
		seed = v
	}

	h.run(w, r, func(ctx context.Context, g *graph.Graph, opts pipeline.Options) (*graph.Graph, error) {
		opts.Seed = seed
		return pipeline.Simplify(ctx, g, opts)
	}, delta)
}

// HandleDiscretize handles POST /api/v1/discretize?delta=.
func (h *Handlers) HandleDiscretize(w http.ResponseWriter, r *http.Request) {
	delta, ok := parseDelta(w, r, true)
	if !ok {
		return
	}
	h.run(w, r, pipeline.Discretize, delta)
}

type stage func(ctx context.Context, g *graph.Graph, opts pipeline.Options) (*graph.Graph, error)

// run decodes the request body, applies fn and writes the result back in the
// record format.
func (h *Handlers) run(w http.ResponseWriter, r *http.Request, fn stage, delta float64) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "body_too_large", "")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}
	g, err := graph.ReadRecords(bytes.NewReader(body), h.sep)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid_records", "", err.Error())
		return
	}

	runID := uuid.NewString()
	logger := h.logger.With("run_id", runID)
	out, err := fn(r.Context(), g, pipeline.Options{
		Delta:    delta,
		Reporter: metrics.LogReporter{Logger: logger},
		Logger:   logger,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
			return
		}
		writeErrorMessage(w, http.StatusUnprocessableEntity, "pipeline_failed", "", err.Error())
		return
	}

	var buf bytes.Buffer
	if err := graph.WriteRecords(&buf, out, h.sep); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Run-ID", runID)
	w.Header().Set("X-Graph-Nodes", strconv.Itoa(out.NumNodes()))
	w.Header().Set("X-Graph-Links", strconv.Itoa(len(out.Edges())))
	w.Write(buf.Bytes())
}

func parseDelta(w http.ResponseWriter, r *http.Request, positive bool) (float64, bool) {
	delta, err := strconv.ParseFloat(r.URL.Query().Get("delta"), 64)
	if err != nil || math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 || (positive && delta == 0) {
		writeError(w, http.StatusBadRequest, "invalid_delta", "delta")
		return 0, false
	}
	return delta, true
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}
