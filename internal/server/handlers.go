package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/platecut/pkg/buildinfo"
	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/pipeline"
	"github.com/matzehuels/platecut/pkg/placement"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/project"
	"github.com/matzehuels/platecut/pkg/render"
	"github.com/matzehuels/platecut/pkg/socket"
	"github.com/matzehuels/platecut/pkg/store"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// =============================================================================
// Plates
// =============================================================================

type platesResponse struct {
	Plates      []plate.Raw `json:"plates"`
	ActiveIndex int         `json:"active_index"`
}

type platesRequest struct {
	Plates      []plate.Raw `json:"plates"`
	ActiveIndex *int        `json:"active_index,omitempty"`
}

func (s *Server) handleGetPlates(w http.ResponseWriter, r *http.Request) {
	p, err := store.LoadProject(r.Context(), s.repo)
	if err != nil {
		s.writeError(w, r, storeErr(err, "load plates"))
		return
	}
	writeJSON(w, http.StatusOK, platesResponse{Plates: p.Plates, ActiveIndex: p.ActiveIndex})
}

// handlePutPlates replaces the plate list. Groups on plates that no longer
// exist are dropped.
func (s *Server) handlePutPlates(w http.ResponseWriter, r *http.Request) {
	var req platesRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := plate.ValidateCount(len(req.Plates)); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := plate.ValidateAll(req.Plates); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := r.Context()

	p, err := store.LoadProject(ctx, s.repo)
	if err != nil {
		s.writeError(w, r, storeErr(err, "load project"))
		return
	}
	p.Plates = req.Plates
	kept := p.Sockets[:0]
	for _, g := range p.Sockets {
		if g.PlateIndex < len(p.Plates) {
			kept = append(kept, g)
		}
	}
	p.Sockets = kept
	if req.ActiveIndex != nil {
		p.ActiveIndex = *req.ActiveIndex
	}
	if p.ActiveIndex < 0 || p.ActiveIndex >= len(p.Plates) {
		p.ActiveIndex = 0
	}
	if err := store.SaveProject(ctx, s.repo, p); err != nil {
		s.writeError(w, r, storeErr(err, "save plates"))
		return
	}
	s.logger.Info("plates replaced", "count", len(p.Plates), "groups", len(p.Sockets))
	writeJSON(w, http.StatusOK, platesResponse{Plates: p.Plates, ActiveIndex: p.ActiveIndex})
}

// =============================================================================
// Sockets
// =============================================================================

type socketRequest struct {
	PlateIndex  int                `json:"plate_index"`
	Count       int                `json:"count"`
	Orientation socket.Orientation `json:"orientation"`
	AnchorXCm   float64            `json:"anchor_x_cm"`
	AnchorYCm   float64            `json:"anchor_y_cm"`
	ExcludeID   string             `json:"exclude_id,omitempty"`
}

func (req socketRequest) group(id string) socket.Group {
	o := req.Orientation
	if o == "" {
		o = socket.Horizontal
	}
	return socket.Group{
		ID:          id,
		PlateIndex:  req.PlateIndex,
		Count:       req.Count,
		Orientation: o,
		AnchorXCm:   req.AnchorXCm,
		AnchorYCm:   req.AnchorYCm,
	}
}

func (s *Server) handleListSockets(w http.ResponseWriter, r *http.Request) {
	groups, err := s.repo.LoadGroups(r.Context())
	if err != nil {
		s.writeError(w, r, storeErr(err, "load socket groups"))
		return
	}
	if groups == nil {
		groups = []socket.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleAddSocket(w http.ResponseWriter, r *http.Request) {
	var req socketRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := r.Context()

	dims, err := s.repo.LoadDimensions(ctx)
	if err != nil {
		s.writeError(w, r, storeErr(err, "load plates"))
		return
	}
	groups, err := s.repo.LoadGroups(ctx)
	if err != nil {
		s.writeError(w, r, storeErr(err, "load socket groups"))
		return
	}

	g := req.group(socket.NewID())
	if err := g.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if g.PlateIndex >= len(dims) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "plate #%d not found", g.PlateIndex+1))
		return
	}
	dim := dims[g.PlateIndex].Footprint()
	res := placement.Validate(placement.CandidateOf(g), dim.WidthCm, dim.HeightCm, socket.OnPlate(groups, g.PlateIndex), "", s.placement)
	if !res.Valid {
		s.writeError(w, r, res.Err())
		return
	}

	groups = append(groups, g)
	if err := s.repo.SaveGroups(ctx, groups); err != nil {
		s.writeError(w, r, storeErr(err, "save socket groups"))
		return
	}
	s.logger.Info("socket group added", "id", g.ID, "plate", g.PlateIndex, "count", g.Count)
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleDeleteSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	ctx := r.Context()

	groups, err := s.repo.LoadGroups(ctx)
	if err != nil {
		s.writeError(w, r, storeErr(err, "load socket groups"))
		return
	}
	i := socket.Find(groups, id)
	if i < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "socket group %s not found", id))
		return
	}
	groups = append(groups[:i], groups[i+1:]...)
	if err := s.repo.SaveGroups(ctx, groups); err != nil {
		s.writeError(w, r, storeErr(err, "save socket groups"))
		return
	}
	s.logger.Info("socket group removed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Layout, validation, rendering
// =============================================================================

type layoutResponse struct {
	OK    bool          `json:"ok"`
	Scene *render.Scene `json:"scene,omitempty"`
}

// viewportFrom reads width/height query parameters, falling back to the
// server default.
func (s *Server) viewportFrom(r *http.Request) (layout.Viewport, error) {
	vp := s.viewport
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"width", &vp.Width}, {"height", &vp.Height}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return vp, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", p.name, v)
		}
		*p.dst = f
	}
	return vp, nil
}

// view loads state and reads the layout query parameters. focus is a
// 0-based plate index.
func (s *Server) view(r *http.Request) (*project.Project, pipeline.Options, error) {
	vp, err := s.viewportFrom(r)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	po := pipeline.Options{
		Viewport:    vp,
		Layout:      s.layout,
		ActiveGroup: r.URL.Query().Get("active"),
		Format:      render.FormatSVG,
	}
	if v := r.URL.Query().Get("focus"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			return nil, po, errors.New(errors.ErrCodeInvalidInput, "focus must be a plate index, got %q", v)
		}
		po.Focus = i + 1
	}
	p, err := store.LoadProject(r.Context(), s.repo)
	if err != nil {
		return nil, po, storeErr(err, "load project")
	}
	return p, po, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	p, po, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, ok := s.runner.Scene(p, po)
	if !ok {
		writeJSON(w, http.StatusOK, layoutResponse{})
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{OK: true, Scene: &sc})
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	p, po, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, ok := s.runner.Scene(p, po)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	out, hit, err := s.runner.Render(r.Context(), p, sc, po)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.FormatSVG.ContentType())
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

type validateResponse struct {
	Valid   bool                 `json:"valid"`
	Reason  *placement.Violation `json:"reason,omitempty"`
	Message string               `json:"message,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req socketRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	dims, err := s.repo.LoadDimensions(ctx)
	if err != nil {
		s.writeError(w, r, storeErr(err, "load plates"))
		return
	}
	groups, err := s.repo.LoadGroups(ctx)
	if err != nil {
		s.writeError(w, r, storeErr(err, "load socket groups"))
		return
	}

	g := req.group("candidate")
	if err := g.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if g.PlateIndex >= len(dims) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "plate #%d not found", g.PlateIndex+1))
		return
	}
	dim := dims[g.PlateIndex].Footprint()
	res := placement.Validate(placement.CandidateOf(g), dim.WidthCm, dim.HeightCm, socket.OnPlate(groups, g.PlateIndex), req.ExcludeID, s.placement)

	resp := validateResponse{Valid: res.Valid, Reason: res.Reason}
	if res.Reason != nil {
		resp.Message = res.Reason.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	groups, err := s.repo.LoadGroups(r.Context())
	if err != nil {
		s.writeError(w, r, storeErr(err, "load socket groups"))
		return
	}
	writeJSON(w, http.StatusOK, project.NewQuote(groups, s.price))
}

// storeErr tags a backend failure with ErrCodeStore unless it already
// carries a code.
func storeErr(err error, action string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeStore, err, "%s", action)
}
