package router

import (
	"errors"
	"fmt"
)

// Transition error codes carried by Error.Code.
const (
	CodeRouteNotFound        = "ROUTE_NOT_FOUND"
	CodeSameStates           = "SAME_STATES"
	CodeCannotDeactivate     = "CANNOT_DEACTIVATE"
	CodeCannotActivate       = "CANNOT_ACTIVATE"
	CodeTransitionErr        = "TRANSITION_ERR"
	CodeTransitionCancelled  = "TRANSITION_CANCELLED"
	CodeRouterNotStarted     = "ROUTER_NOT_STARTED"
	CodeRouterAlreadyStarted = "ROUTER_ALREADY_STARTED"
	CodeNoStartPathOrState   = "NO_START_PATH_OR_STATE"
)

// ErrForwardCycle is returned by Forward when the requested alias would
// close a cycle in the forward map.
var ErrForwardCycle = errors.New("router: forward alias cycle")

// Redirect instructs the router to abandon the current transition and
// navigate to another route instead. Guards and middleware deny with a
// redirect by completing with &Error{Redirect: ...}.
type Redirect struct {
	Name   string
	Params Params
}

// Error is the failure value delivered to navigation callbacks and
// TRANSITION_ERROR listeners. Code is always one of the Code constants
// above. Segment names the route segment whose guard denied, when a
// guard was involved. Err holds the underlying cause, if any.
type Error struct {
	Code     string
	Message  string
	Segment  string
	Redirect *Redirect
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Segment != "":
		return fmt.Sprintf("router: %s at %q: %s", e.Code, e.Segment, e.Message)
	case e.Message != "":
		return fmt.Sprintf("router: %s: %s", e.Code, e.Message)
	case e.Segment != "":
		return fmt.Sprintf("router: %s at %q", e.Code, e.Segment)
	default:
		return "router: " + e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// normalizeError gives guard and middleware failures a definite code and
// segment without mutating the value the guard completed with.
func normalizeError(err *Error, code, segment string) *Error {
	out := *err
	if out.Code == "" {
		out.Code = code
	}
	if out.Segment == "" {
		out.Segment = segment
	}
	return &out
}
