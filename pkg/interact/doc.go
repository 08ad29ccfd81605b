// Package interact drives pointer interaction on the plate canvas.
//
// A [Controller] owns the current [layout.Frame], the selection state, and at
// most one drag session. It is a small state machine:
//
//	Idle --BeginDrag--> Dragging --UpdateDrag--> Dragging
//	Dragging --EndDrag/Leave--> Idle
//
// Every pointer move is converted into a centimeter delta using the current
// scale (the vertical component is negated because plate space grows
// upward), added to the group's committed anchor, and handed to
// [placement.Validate]. Accepted candidates are committed to the
// [socket.Collection] immediately and the pointer reference advances; rejected
// candidates leave the committed anchor alone and surface a transient error.
// Releasing the pointer while an error is showing snaps the group back to
// where the drag started. The error clears itself after [ErrorClearDelay].
//
// Timers fire on their own goroutines, so all state is guarded by one mutex.
// Callers that render (the terminal editor, the HTTP API) register a notify
// function with [WithNotify] and re-read state when it fires.
package interact
