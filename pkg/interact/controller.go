package interact

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/platecut/pkg/errors"
	"github.com/matzehuels/platecut/pkg/geometry"
	"github.com/matzehuels/platecut/pkg/layout"
	"github.com/matzehuels/platecut/pkg/observability"
	"github.com/matzehuels/platecut/pkg/placement"
	"github.com/matzehuels/platecut/pkg/plate"
	"github.com/matzehuels/platecut/pkg/socket"
)

const (
	// ErrorClearDelay is how long a rejected-move message stays visible after
	// the pointer is released.
	ErrorClearDelay = 3 * time.Second
	// ResizeDebounce coalesces bursts of viewport size changes.
	ResizeDebounce = 100 * time.Millisecond
)

// State is the controller's interaction state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Session describes an active drag.
type Session struct {
	GroupID       string
	PointerOrigin geometry.Point // pixel position of the last committed move
	AnchorOrigin  geometry.Point // anchor (cm) when the drag started
}

// Timer is the part of *time.Timer the controller uses.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. It matches time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Controller is the stateful half of the canvas; everything it computes is
// delegated to the pure layout, socket and placement packages.
type Controller struct {
	mu sync.Mutex

	plates   []plate.Dimension
	groups   *socket.Collection
	viewport layout.Viewport
	frame    layout.Frame
	frameOK  bool

	focus   int
	focused bool

	cutouts     bool
	activePlate int
	activeGroup string
	editing     string

	session *Session
	errMsg  string
	errGen  uint64

	errTimer    Timer
	resizeTimer Timer

	afterFunc  AfterFunc
	notify     func()
	logger     *log.Logger
	placement  placement.Options
	layoutOpts []layout.Option
	clearDelay time.Duration
	debounce   time.Duration
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// WithPlacement overrides the clearances used to validate moves.
func WithPlacement(o placement.Options) Option { return func(c *Controller) { c.placement = o } }

// WithLayout passes options through to every layout pass.
func WithLayout(opts ...layout.Option) Option {
	return func(c *Controller) { c.layoutOpts = append(c.layoutOpts, opts...) }
}

// WithViewport sets the initial viewport.
func WithViewport(vp layout.Viewport) Option { return func(c *Controller) { c.viewport = vp } }

// WithNotify registers a function called (without the lock held) whenever
// state changes asynchronously, i.e. when a debounced resize lands or an
// error message expires.
func WithNotify(fn func()) Option { return func(c *Controller) { c.notify = fn } }

// WithAfterFunc replaces time.AfterFunc, mainly for tests.
func WithAfterFunc(fn AfterFunc) Option { return func(c *Controller) { c.afterFunc = fn } }

// WithDelays overrides ErrorClearDelay and ResizeDebounce.
func WithDelays(errorClear, resize time.Duration) Option {
	return func(c *Controller) { c.clearDelay, c.debounce = errorClear, resize }
}

// New creates a controller for plates whose groups live in groups.
func New(plates []plate.Dimension, groups *socket.Collection, opts ...Option) *Controller {
	c := &Controller{
		plates:     append([]plate.Dimension(nil), plates...),
		groups:     groups,
		cutouts:    true,
		afterFunc:  realAfterFunc,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		clearDelay: ErrorClearDelay,
		debounce:   ResizeDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.groups == nil {
		c.groups = socket.NewCollection(nil)
	}
	c.relayoutLocked()
	return c
}

// =============================================================================
// Layout
// =============================================================================

// Frame returns the current layout. ok is false when nothing can be drawn.
func (c *Controller) Frame() (layout.Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame, c.frameOK
}

// Plates returns a copy of the plate list.
func (c *Controller) Plates() []plate.Dimension {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]plate.Dimension(nil), c.plates...)
}

// Groups returns the socket collection the controller mutates.
func (c *Controller) Groups() *socket.Collection { return c.groups }

// SetPlates replaces the plate list and recomputes the layout.
func (c *Controller) SetPlates(plates []plate.Dimension) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.plates = append([]plate.Dimension(nil), plates...)
	if c.focused && c.focus >= len(c.plates) {
		c.focused = false
	}
	if c.activePlate >= len(c.plates) {
		c.activePlate = max(0, len(c.plates)-1)
	}
	c.relayoutLocked()
}

// Resize schedules a viewport change. Calls arriving within the debounce
// window replace each other; only the last one is applied.
func (c *Controller) Resize(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
	vp := layout.Viewport{Width: width, Height: height}
	var t Timer
	t = c.afterFunc(c.debounce, func() {
		c.mu.Lock()
		if c.resizeTimer != t {
			c.mu.Unlock()
			return
		}
		c.resizeTimer = nil
		c.viewport = vp
		c.relayoutLocked()
		c.mu.Unlock()
		c.fireNotify()
	})
	c.resizeTimer = t
}

// ResizeNow applies a viewport change immediately and cancels any pending
// debounced resize.
func (c *Controller) ResizeNow(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
		c.resizeTimer = nil
	}
	c.viewport = layout.Viewport{Width: width, Height: height}
	c.relayoutLocked()
}

// Focus lays out only plate index. Group plate indices are unaffected.
func (c *Controller) Focus(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.plates) {
		return errors.New(errors.ErrCodeNotFound, "plate #%d does not exist", index+1)
	}
	c.focus, c.focused = index, true
	c.activePlate = index
	c.relayoutLocked()
	return nil
}

// Unfocus returns to laying out every plate and drops the group highlight.
func (c *Controller) Unfocus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focused = false
	c.activeGroup = ""
	c.relayoutLocked()
}

// Focused returns the focused plate, if any.
func (c *Controller) Focused() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus, c.focused
}

func (c *Controller) relayoutLocked() {
	opts := c.layoutOpts
	if c.focused {
		opts = append(append([]layout.Option(nil), opts...), layout.WithFocus(c.focus))
	}
	start := time.Now()
	c.frame, c.frameOK = layout.Compute(c.plates, c.viewport, opts...)
	observability.Layout().OnLayout(context.Background(), len(c.frame.Plates), c.frame.Scale, c.frameOK, time.Since(start))
	if !c.frameOK {
		c.logger.Debug("degenerate layout", "plates", len(c.plates), "viewport", c.viewport)
	}
}

// =============================================================================
// Selection
// =============================================================================

// SetCutoutsVisible shows or hides socket cutouts. Hidden cutouts cannot be
// hit or dragged; hiding them ends any drag in progress.
func (c *Controller) SetCutoutsVisible(visible bool) {
	c.mu.Lock()
	c.cutouts = visible
	var notify bool
	if !visible && c.session != nil {
		c.endLocked()
		notify = true
	}
	c.mu.Unlock()
	if notify {
		c.fireNotify()
	}
}

// CutoutsVisible reports whether cutouts are shown.
func (c *Controller) CutoutsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cutouts
}

// ActivePlate returns the highlighted plate index.
func (c *Controller) ActivePlate() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activePlate
}

// SetActivePlate highlights plate index.
func (c *Controller) SetActivePlate(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.plates) {
		return errors.New(errors.ErrCodeNotFound, "plate #%d does not exist", index+1)
	}
	c.activePlate = index
	return nil
}

// ActiveGroup returns the highlighted group id, or "".
func (c *Controller) ActiveGroup() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeGroup
}

// Editing returns the group selected for form editing, or "".
func (c *Controller) Editing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// SetEditing selects a group for form editing. Starting a drag clears it.
func (c *Controller) SetEditing(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = id
}

// Error returns the transient error message, or "".
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// State returns Idle or Dragging.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return Dragging
	}
	return Idle
}

// Session returns the active drag session.
func (c *Controller) Session() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// HitTest returns the group under px. It never hits while cutouts are hidden
// or the layout is degenerate.
func (c *Controller) HitTest(px geometry.Point) (socket.Group, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hitLocked(px)
}

func (c *Controller) hitLocked(px geometry.Point) (socket.Group, bool) {
	if !c.cutouts || !c.frameOK {
		return socket.Group{}, false
	}
	return socket.HitTest(c.frame, c.groups.Snapshot(), px)
}

// ClickKind says what a click landed on.
type ClickKind int

const (
	ClickNothing ClickKind = iota
	ClickSocket
	ClickPlate
)

// ClickResult reports the outcome of Click.
type ClickResult struct {
	Kind       ClickKind
	GroupID    string
	PlateIndex int
}

// Click handles a press-and-release without movement. A socket hit selects
// the group. A plate hit activates the plate and clears the group selection.
// Empty canvas clears the group selection when cutouts are visible.
func (c *Controller) Click(px geometry.Point) ClickResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.hitLocked(px); ok {
		c.activeGroup = g.ID
		return ClickResult{Kind: ClickSocket, GroupID: g.ID, PlateIndex: g.PlateIndex}
	}
	if c.frameOK {
		if p, ok := c.frame.PlateAt(px); ok {
			c.activePlate = p.Index
			c.activeGroup = ""
			return ClickResult{Kind: ClickPlate, PlateIndex: p.Index}
		}
	}
	if c.cutouts {
		c.activeGroup = ""
	}
	return ClickResult{Kind: ClickNothing, PlateIndex: -1}
}

// =============================================================================
// Drag
// =============================================================================

// PointerDown hit-tests px and starts dragging the group under it.
func (c *Controller) PointerDown(px geometry.Point) (socket.Group, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.hitLocked(px)
	if !ok || c.session != nil {
		return socket.Group{}, false
	}
	c.beginLocked(g, px)
	return g, true
}

// BeginDrag starts dragging group id from pixel position px.
func (c *Controller) BeginDrag(id string, px geometry.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil {
		return errors.New(errors.ErrCodeDragState, "already dragging %s", c.session.GroupID)
	}
	if !c.cutouts {
		return errors.New(errors.ErrCodeDragState, "cutouts are hidden")
	}
	g, ok := c.groups.Get(id)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "socket group %s not found", id)
	}
	if !c.frameOK {
		return errors.New(errors.ErrCodeDragState, "nothing is laid out")
	}
	if _, ok := c.frame.Plate(g.PlateIndex); !ok {
		return errors.New(errors.ErrCodeDragState, "plate #%d is not shown", g.PlateIndex+1)
	}
	c.beginLocked(g, px)
	return nil
}

func (c *Controller) beginLocked(g socket.Group, px geometry.Point) {
	c.session = &Session{GroupID: g.ID, PointerOrigin: px, AnchorOrigin: g.Anchor()}
	c.activeGroup = g.ID
	c.editing = ""
	c.setErrorLocked("")
	c.logger.Debug("drag start", "group", g.ID, "anchor", g.Anchor())
	observability.Drag().OnDragStart(g.ID)
}

// MoveResult reports the outcome of one pointer move.
type MoveResult struct {
	Accepted bool
	Reason   *placement.Violation
	Anchor   geometry.Point // committed anchor after the move
}

// UpdateDrag moves the dragged group toward px.
func (c *Controller) UpdateDrag(px geometry.Point) (MoveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return MoveResult{}, errors.New(errors.ErrCodeDragState, "no drag in progress")
	}
	g, ok := c.groups.Get(s.GroupID)
	if !ok {
		c.session = nil
		return MoveResult{}, errors.New(errors.ErrCodeNotFound, "socket group %s not found", s.GroupID)
	}
	if !c.frameOK || c.frame.Scale <= 0 || g.PlateIndex >= len(c.plates) {
		return MoveResult{Anchor: g.Anchor()}, errors.New(errors.ErrCodeDragState, "nothing is laid out")
	}

	delta := px.Sub(s.PointerOrigin)
	candidate := g.Anchor().Add(geometry.Point{
		X: delta.X / c.frame.Scale,
		Y: -delta.Y / c.frame.Scale,
	})

	dim := c.plates[g.PlateIndex].Footprint()
	siblings := socket.OnPlate(c.groups.Snapshot(), g.PlateIndex)
	r := placement.Validate(placement.CandidateOf(g).At(candidate), dim.WidthCm, dim.HeightCm, siblings, g.ID, c.placement)

	if !r.Valid {
		c.setErrorLocked(r.Reason.Error())
		observability.Drag().OnDragMove(g.ID, false, r.Reason.Error())
		return MoveResult{Reason: r.Reason, Anchor: g.Anchor()}, nil
	}

	c.groups.Put(g.WithAnchor(candidate))
	s.PointerOrigin = px
	c.setErrorLocked("")
	observability.Drag().OnDragMove(g.ID, true, "")
	return MoveResult{Accepted: true, Anchor: candidate}, nil
}

// EndResult reports how a drag finished.
type EndResult struct {
	GroupID     string
	SnappedBack bool
	Anchor      geometry.Point
}

// EndDrag finishes the drag. If the last move was rejected the group returns
// to where the drag started. Calling EndDrag while idle is a no-op.
func (c *Controller) EndDrag() EndResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endLocked()
}

// Leave handles the pointer leaving the canvas. It behaves like EndDrag.
func (c *Controller) Leave() EndResult { return c.EndDrag() }

func (c *Controller) endLocked() EndResult {
	s := c.session
	if s == nil {
		return EndResult{}
	}
	c.session = nil

	res := EndResult{GroupID: s.GroupID}
	g, ok := c.groups.Get(s.GroupID)
	if ok {
		res.Anchor = g.Anchor()
	}
	if c.errMsg != "" {
		if ok {
			c.groups.Put(g.WithAnchor(s.AnchorOrigin))
		}
		res.SnappedBack = true
		res.Anchor = s.AnchorOrigin
		c.scheduleClearLocked()
	}
	c.logger.Debug("drag end", "group", s.GroupID, "snapped_back", res.SnappedBack, "anchor", res.Anchor)
	observability.Drag().OnDragEnd(s.GroupID, res.SnappedBack)
	return res
}

// =============================================================================
// Transient error
// =============================================================================

func (c *Controller) setErrorLocked(msg string) {
	c.errMsg = msg
	c.errGen++
	if c.errTimer != nil {
		c.errTimer.Stop()
		c.errTimer = nil
	}
}

func (c *Controller) scheduleClearLocked() {
	gen := c.errGen
	c.errTimer = c.afterFunc(c.clearDelay, func() {
		c.mu.Lock()
		if c.errGen != gen {
			c.mu.Unlock()
			return
		}
		c.errMsg = ""
		c.errTimer = nil
		c.mu.Unlock()
		c.fireNotify()
	})
}

func (c *Controller) fireNotify() {
	if c.notify != nil {
		c.notify()
	}
}

// Close stops pending timers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.errTimer != nil {
		c.errTimer.Stop()
		c.errTimer = nil
	}
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
		c.resizeTimer = nil
	}
}
