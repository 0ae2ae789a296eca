package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/gdcross/pkg/buildinfo"
	"github.com/matzehuels/gdcross/pkg/core/drawing"
	gderrors "github.com/matzehuels/gdcross/pkg/errors"
	"github.com/matzehuels/gdcross/pkg/graph"
	"github.com/matzehuels/gdcross/pkg/pipeline"
	"github.com/matzehuels/gdcross/pkg/render"
	"github.com/matzehuels/gdcross/pkg/store"
)

// =============================================================================
// Request and Response Bodies
// =============================================================================

// Request is the body of every POST endpoint.
type Request struct {
	Drawing graph.Drawing    `json:"drawing"`
	Options pipeline.Options `json:"options"`

	// Save stores the result as a report (POST /v1/crossings only).
	Save bool `json:"save,omitempty"`

	// Source names the drawing in saved reports. It must be a relative path.
	Source string `json:"source,omitempty"`
}

// CrossingsResponse answers POST /v1/crossings.
type CrossingsResponse struct {
	ID        string           `json:"id,omitempty"`
	Crossings []graph.Crossing `json:"crossings"`
	Count     int              `json:"count"`
	Metrics   graph.Metrics    `json:"metrics"`
	CacheHit  bool             `json:"cache_hit"`
}

// MetricsResponse answers POST /v1/metrics.
type MetricsResponse struct {
	graph.Metrics
	Angles [][]float64 `json:"angles"`
}

// PlanarizeResponse answers POST /v1/planarize.
type PlanarizeResponse struct {
	Drawing       graph.Drawing    `json:"drawing"`
	Crossings     []graph.Crossing `json:"crossings"`
	AddedNodes    []string         `json:"added_nodes"`
	RemovedNodes  []string         `json:"removed_nodes"`
	ReplacedEdges int              `json:"replaced_edges"`
}

var contentTypes = map[string]string{
	render.FormatSVG: "image/svg+xml",
	render.FormatDOT: "text/vnd.graphviz",
	render.FormatPDF: "application/pdf",
	render.FormatPNG: "image/png",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{Status: "ok", Info: buildinfo.Get()})
}

// readDrawing decodes the request and converts its drawing.
func (s *Server) readDrawing(w http.ResponseWriter, r *http.Request) (Request, *drawing.Drawing, error) {
	var req Request
	if err := s.decode(w, r, &req); err != nil {
		return req, nil, err
	}
	if req.Source != "" {
		if err := gderrors.ValidatePath(req.Source); err != nil {
			return req, nil, err
		}
	}
	s.logger.Debug("drawing received", "path", r.URL.Path, "size", req.Drawing.Summary())
	d, err := graph.ToDrawing(req.Drawing)
	if err != nil {
		return req, nil, err
	}
	return req, d, nil
}

func (s *Server) handleCrossings(w http.ResponseWriter, r *http.Request) {
	req, d, err := s.readDrawing(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Save && s.store == nil {
		writeError(w, gderrors.New(gderrors.ErrCodeUnsupported, "report storage is disabled"))
		return
	}

	res, err := s.runner.Analyze(r.Context(), d, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := CrossingsResponse{
		Crossings: graph.FromCrossings(res.Crossings),
		Count:     res.Metrics.Count,
		Metrics:   res.Metrics,
		CacheHit:  res.CacheHit,
	}

	if req.Save {
		report := res.Report(req.Source, req.Options)
		id, err := s.store.Save(r.Context(), &report)
		if err != nil {
			writeError(w, storeError(err, ""))
			return
		}
		resp.ID = id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	req, d, err := s.readDrawing(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.runner.Analyze(r.Context(), d, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MetricsResponse{
		Metrics: res.Metrics,
		Angles:  pipeline.Angles(d, res.Crossings, req.Options),
	})
}

func (s *Server) handlePlanarize(w http.ResponseWriter, r *http.Request) {
	req, d, err := s.readDrawing(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, res, err := s.runner.Planarize(r.Context(), d, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PlanarizeResponse{
		Drawing:       graph.FromDrawing(out),
		Crossings:     graph.FromCrossings(res.Crossings),
		AddedNodes:    nonNil(res.AddedNodes),
		RemovedNodes:  nonNil(res.RemovedNodes),
		ReplacedEdges: res.ReplacedEdges,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, d, err := s.readDrawing(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	list, _, err := s.runner.Detect(r.Context(), d, req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := s.runner.Render(r.Context(), d, list, req.Options)
	if err != nil {
		writeError(w, gderrors.Wrap(gderrors.ErrCodeInternal, err, "render"))
		return
	}
	format := req.Options.Format
	if format == "" {
		format = pipeline.DefaultRenderFormat
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, gderrors.New(gderrors.ErrCodeUnsupported, "report storage is disabled"))
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, gderrors.New(gderrors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	reports, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, storeError(err, ""))
		return
	}
	if reports == nil {
		reports = []*graph.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r)
	if !ok {
		return
	}
	report, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, storeError(err, id))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.reportID(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, storeError(err, id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reportID extracts and checks the {id} URL parameter. It writes the error
// response itself and reports whether handling may continue.
func (s *Server) reportID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if s.store == nil {
		writeError(w, gderrors.New(gderrors.ErrCodeUnsupported, "report storage is disabled"))
		return "", false
	}
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		writeError(w, notFound("report %s not found", id))
		return "", false
	}
	return id, true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
