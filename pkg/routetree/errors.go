package routetree

import "errors"

// Structural errors reported at registration or build time.
var (
	// ErrInvalidName is returned for empty or malformed route names.
	ErrInvalidName = errors.New("routetree: invalid route name")

	// ErrMissingParent is returned when a dotted name cannot be resolved
	// to an existing parent node.
	ErrMissingParent = errors.New("routetree: parent route not found")

	// ErrDuplicatePath is returned when a sibling already owns an
	// identical compiled path.
	ErrDuplicatePath = errors.New("routetree: duplicate sibling path")

	// ErrRouteNotFound is returned by build operations when a name does
	// not resolve to a node chain.
	ErrRouteNotFound = errors.New("routetree: route not found")

	// ErrAbsoluteUnderParams is returned when an absolute route is
	// declared under an ancestor whose template carries parameters.
	ErrAbsoluteUnderParams = errors.New("routetree: absolute route under parameterized ancestor")
)
