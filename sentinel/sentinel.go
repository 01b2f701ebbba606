package sentinel

import "errors"

// Sentinel errors shared by the stores and services. Stores return these
// (optionally wrapped) so callers can branch on the kind of failure instead
// of a bool/nil conflation:
// - ErrInvalidInput: bad email, bad gender, unparseable date or time
// - ErrAlreadyExists: duplicate derived id on creation
// - ErrNotFound: fetch/delete/edit on an absent id
// - ErrFieldNotEditable: edit outside the allow-list
// - ErrReferentialGap: a membership or event referenced by id no longer exists
// - ErrUnavailable: the backing store could not be reached
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadyExists    = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrFieldNotEditable = errors.New("field not editable")
	ErrReferentialGap   = errors.New("referential gap")
	ErrUnavailable      = errors.New("store unavailable")
)
