package datastructure

import "errors"

var (
	ErrNilObject      = errors.New("nil object")
	ErrInvalidName    = errors.New("invalid object name")
	ErrNameCollision  = errors.New("name already exists in parent")
	ErrDuplicateID    = errors.New("object id already present")
	ErrParentNotFound = errors.New("parent not found")
	ErrParentNotGroup = errors.New("parent cannot hold children")
	ErrInsertRejected = errors.New("parent rejected object")
	ErrForeignObject  = errors.New("object belongs to a different structure")
	ErrAlreadyOwned   = errors.New("object already has an owner")
	ErrDestroyed      = errors.New("object was removed from its structure")
	ErrNotFound       = errors.New("object not found")
	ErrCycle          = errors.New("object cannot be moved below itself")
	ErrInvalidPath    = errors.New("invalid path")
	ErrWrongType      = errors.New("object has the wrong type")
	ErrTopology       = errors.New("invalid geometry topology")
	ErrTooManyTiles   = errors.New("montage grid too large")
)

// ErrStopWalk can be returned from a WalkFunc to end the walk without error.
var ErrStopWalk = errors.New("walk stopped")

// ErrSkipChildren can be returned from a WalkFunc to skip the children of the
// current group.
var ErrSkipChildren = errors.New("skip children")
