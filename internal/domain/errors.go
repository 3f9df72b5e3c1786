package domain

import "errors"

var (
	// ErrInvalidRange rejects an explicit reschedule whose start is not
	// before its due date. State is left unchanged.
	ErrInvalidRange = errors.New("start date is equal to or later than due date")

	// ErrUnknownRelationType rejects a relation type outside the closed set.
	ErrUnknownRelationType = errors.New("unknown relation type")

	// ErrDanglingRelation marks a relation whose endpoint is not loaded.
	// Such relations are kept but excluded from traversal.
	ErrDanglingRelation = errors.New("relation endpoint is not available")

	// ErrRelationRejected is the feedback signal of the relation-creation
	// gesture when the selected target does not satisfy the predicate.
	ErrRelationRejected = errors.New("relation rejected")

	// ErrResizeNotAllowed refuses resizing containers and milestones.
	ErrResizeNotAllowed = errors.New("issue cannot be resized")

	// ErrGestureState reports an operation issued in the wrong gesture state.
	ErrGestureState = errors.New("invalid gesture state")

	ErrNotFound = errors.New("not found")
)
