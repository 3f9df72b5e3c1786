package graph

import (
	"fmt"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/domain"
)

// DragMode selects what a drag gesture changes.
type DragMode int

const (
	DragMove DragMode = iota
	DragResizeStart
	DragResizeEnd
)

func (m DragMode) String() string {
	switch m {
	case DragMove:
		return "move"
	case DragResizeStart:
		return "resize-start"
	case DragResizeEnd:
		return "resize-end"
	}
	return fmt.Sprintf("DragMode(%d)", int(m))
}

// ParseDragMode accepts "move", "start" and "end".
func ParseDragMode(s string) (DragMode, error) {
	switch s {
	case "move":
		return DragMove, nil
	case "start", "resize-start":
		return DragResizeStart, nil
	case "end", "resize-end":
		return DragResizeEnd, nil
	}
	return 0, fmt.Errorf("unknown drag mode %q (expected move|start|end)", s)
}

// GestureState is the lifecycle of a drag gesture.
type GestureState int

const (
	GestureIdle GestureState = iota
	GestureDragging
	GestureMoving
	GestureCommitted
	GestureAborted
)

func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GestureMoving:
		return "moving"
	case GestureCommitted:
		return "committed"
	case GestureAborted:
		return "aborted"
	}
	return fmt.Sprintf("GestureState(%d)", int(s))
}

// DragGesture drives an interactive move or resize of one node.
type DragGesture struct {
	g      *Graph
	id     string
	mode   DragMode
	state  GestureState
	origin Span
	limits Limits
}

// BeginDrag starts a gesture: it takes the node's backup and computes its
// limits once. Containers and milestones can only be moved, not resized.
func (g *Graph) BeginDrag(id string, mode DragMode) (*DragGesture, error) {
	n, err := g.mustLookup(id)
	if err != nil {
		return nil, err
	}
	if mode != DragMove && (!n.Leaf || n.Milestone) {
		return nil, fmt.Errorf("%s of issue %s: %w", mode, id, domain.ErrResizeNotAllowed)
	}

	if n.backup == nil {
		n.backup = &Span{Start: n.Start, Due: n.Due}
	}
	limits, err := g.ComputeLimits(id, Both, g.NextPass())
	if err != nil {
		return nil, err
	}

	return &DragGesture{
		g:      g,
		id:     id,
		mode:   mode,
		state:  GestureDragging,
		origin: n.Span(g.today()),
		limits: limits,
	}, nil
}

// State returns the current gesture state.
func (d *DragGesture) State() GestureState { return d.state }

// Limits returns the window the gesture clamps against.
func (d *DragGesture) Limits() Limits { return d.limits }

// Update applies a cursor offset of days, measured from where the gesture
// started. The candidate dates are clamped to the limits, then one move
// pass runs: a shift for plain drags, an explicit pair for resizes.
func (d *DragGesture) Update(days int) (*ChangeSet, error) {
	if d.state != GestureDragging && d.state != GestureMoving {
		return nil, fmt.Errorf("update in state %s: %w", d.state, domain.ErrGestureState)
	}
	n, err := d.g.mustLookup(d.id)
	if err != nil {
		return nil, err
	}

	today := d.g.today()
	current := n.Span(today)
	offset := calendar.Days(days)
	oneDay := calendar.Days(1)
	start, due := current.Start, current.Due
	resize := false

	switch d.mode {
	case DragResizeStart:
		start = calendar.Add(d.origin.Start, offset)
		resize = true
	case DragResizeEnd:
		due = calendar.Add(d.origin.Due, offset)
		resize = true
	case DragMove:
		start = calendar.Add(d.origin.Start, offset)
		due = calendar.Add(d.origin.Due, offset)
	}

	lim := d.limits
	if d.mode != DragResizeEnd && calendar.IsSet(lim.MinStart) && start.Before(lim.MinStart) {
		start = lim.MinStart
		if !resize {
			due = lim.MinDue
		}
	}
	if d.mode != DragResizeStart && calendar.IsSet(lim.MaxDue) && due.After(lim.MaxDue) {
		due = lim.MaxDue
		if !resize {
			start = lim.MaxStart
		}
	}

	// A resize never collapses the node below one day.
	switch d.mode {
	case DragResizeStart:
		if !start.Before(due) {
			start = calendar.Sub(due, oneDay)
		}
	case DragResizeEnd:
		if !due.After(start) {
			due = calendar.Add(start, oneDay)
		}
	case DragMove:
	}

	pass := d.g.NextPass()
	d.state = GestureMoving
	if resize {
		// Resizing changes the duration the limits were derived from.
		if d.limits, err = d.g.ComputeLimits(d.id, Both, pass); err != nil {
			return nil, err
		}
		return d.g.Move(d.id, Reschedule(start, due), pass)
	}
	return d.g.Move(d.id, Shift(calendar.Between(start, current.Start)), pass)
}

// Commit ends the gesture and flushes the change-set.
func (d *DragGesture) Commit() ([]ChangeEntry, error) {
	if d.state != GestureDragging && d.state != GestureMoving {
		return nil, fmt.Errorf("commit in state %s: %w", d.state, domain.ErrGestureState)
	}
	d.state = GestureCommitted
	return d.g.Flush(), nil
}

// Abort ends the gesture and restores every touched node from its backup.
func (d *DragGesture) Abort() ([]string, error) {
	if d.state != GestureDragging && d.state != GestureMoving {
		return nil, fmt.Errorf("abort in state %s: %w", d.state, domain.ErrGestureState)
	}
	d.state = GestureAborted
	return d.g.Restore(), nil
}
