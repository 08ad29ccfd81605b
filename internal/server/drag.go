package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/interact"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/placement"
	"github.com/matzehuels/platecut/pkg/socket"
)

type dragStartRequest struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Pointer geometry.Point `json:"pointer"`
	GroupID string         `json:"group_id,omitempty"`
	Focus   *int           `json:"focus,omitempty"`
}

type dragStartResponse struct {
	SessionID string         `json:"session_id"`
	GroupID   string         `json:"group_id"`
	Anchor    geometry.Point `json:"anchor"`
}

type dragMoveRequest struct {
	Pointer geometry.Point `json:"pointer"`
}

type dragMoveResponse struct {
	Accepted bool                 `json:"accepted"`
	Reason   *placement.Violation `json:"reason,omitempty"`
	Message  string               `json:"message,omitempty"`
	Anchor   geometry.Point       `json:"anchor"`
}

type dragEndResponse struct {
	GroupID     string               `json:"group_id"`
	SnappedBack bool                 `json:"snapped_back"`
	Anchor      geometry.Point       `json:"anchor"`
	Reason      *placement.Violation `json:"reason,omitempty"`
	Message     string               `json:"message,omitempty"`
}

// handleDragStart hit-tests the pointer (or takes group_id) against the
// stored layout and opens a drag session.
func (s *Server) handleDragStart(w http.ResponseWriter, r *http.Request) {
	var req dragStartRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	vp := s.viewport
	if req.Width > 0 && req.Height > 0 {
		vp = layout.Viewport{Width: req.Width, Height: req.Height}
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

	ctrl := interact.New(dims, socket.NewCollection(groups),
		interact.WithLogger(s.logger),
		interact.WithPlacement(s.placement),
		interact.WithLayout(s.layout...),
		interact.WithViewport(vp),
	)
	if req.Focus != nil {
		if err := ctrl.Focus(*req.Focus); err != nil {
			ctrl.Close()
			s.writeError(w, r, err)
			return
		}
	}

	var g socket.Group
	if req.GroupID != "" {
		if err := ctrl.BeginDrag(req.GroupID, req.Pointer); err != nil {
			ctrl.Close()
			s.writeError(w, r, err)
			return
		}
		g, _ = ctrl.Groups().Get(req.GroupID)
	} else {
		var ok bool
		if g, ok = ctrl.PointerDown(req.Pointer); !ok {
			ctrl.Close()
			s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no socket group at (%.1f, %.1f)", req.Pointer.X, req.Pointer.Y))
			return
		}
	}

	sess := s.sessions.add(ctrl)
	s.logger.Debug("drag session opened", "session", sess.id, "group", g.ID)
	writeJSON(w, http.StatusCreated, dragStartResponse{SessionID: sess.id, GroupID: g.ID, Anchor: g.Anchor()})
}

func (s *Server) handleDragMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "drag session not found"))
		return
	}
	var req dragMoveRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := sess.ctrl.UpdateDrag(req.Pointer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := dragMoveResponse{Accepted: res.Accepted, Reason: res.Reason, Anchor: res.Anchor}
	if res.Reason != nil {
		resp.Message = res.Reason.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDragEnd closes the session and commits the final anchor. Only the
// dragged group is written back, so edits made elsewhere meanwhile survive.
// The session validated against the state it loaded at start, so the final
// anchor is checked again against the stored plates and groups; if it no
// longer fits, the stored anchor is kept and the drag reports a snap-back.
func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.remove(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "drag session not found"))
		return
	}
	defer sess.ctrl.Close()
	res := sess.ctrl.EndDrag()
	resp := dragEndResponse{GroupID: res.GroupID, SnappedBack: res.SnappedBack, Anchor: res.Anchor}

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
	i := socket.Find(groups, res.GroupID)
	if i < 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "socket group %s was removed during the drag", res.GroupID))
		return
	}

	moved := groups[i].WithAnchor(res.Anchor)
	if moved.PlateIndex >= len(dims) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "plate #%d was removed during the drag", moved.PlateIndex+1))
		return
	}
	dim := dims[moved.PlateIndex].Footprint()
	if v := placement.ValidateGroup(moved, dim.WidthCm, dim.HeightCm, groups, s.placement); !v.Valid {
		resp.SnappedBack = true
		resp.Anchor = groups[i].Anchor()
		resp.Reason = v.Reason
		resp.Message = v.Reason.Error()
		s.logger.Info("drag commit refused", "session", sess.id, "group", res.GroupID, "reason", resp.Message)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	groups[i] = moved
	if err := s.repo.SaveGroups(ctx, groups); err != nil {
		s.writeError(w, r, storeErr(err, "save socket groups"))
		return
	}
	s.logger.Debug("drag session closed", "session", sess.id, "group", res.GroupID, "snapped_back", res.SnappedBack)
	writeJSON(w, http.StatusOK, resp)
}
