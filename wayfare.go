// Package wayfare provides the public API for the wayfare route
// resolver.
//
// This is the recommended import for most applications:
//
//	import "github.com/wayfare-dev/wayfare"
//
// Usage:
//
//	r, err := wayfare.New([]wayfare.Route{
//	    {Name: "home", Path: "/"},
//	    {Name: "users", Path: "/users", Children: []wayfare.Route{
//	        {Name: "view", Path: "/view/:id"},
//	    }},
//	})
//	r.Start("/users/view/1", nil)
//	r.Navigate("home", nil, wayfare.NavigationOptions{}, nil)
//
// The subpackages hold the full surface: pkg/router for navigation,
// pkg/routetree and pkg/pathtmpl for the matching machinery, pkg/history
// for entry stacks and persistence, pkg/middleware for observability and
// pkg/live for the HTTP bridge.
package wayfare

import (
	"github.com/wayfare-dev/wayfare/pkg/router"
)

// Core types re-exported from pkg/router.
type (
	Router            = router.Router
	Route             = router.Route
	State             = router.State
	Meta              = router.Meta
	Params            = router.Params
	NavigationOptions = router.NavigationOptions
	Option            = router.Option
	Error             = router.Error
	Redirect          = router.Redirect
	DoneFn            = router.DoneFn
	CompletionFn      = router.CompletionFn
	Guard             = router.Guard
	GuardFactory      = router.GuardFactory
	Middleware        = router.Middleware
	MiddlewareFactory = router.MiddlewareFactory
	NodeHook          = router.NodeHook
	Dependencies      = router.Dependencies
	TransitionEvent   = router.TransitionEvent
	SubscribeState    = router.SubscribeState
	Subscription      = router.Subscription
	Observer          = router.Observer
)

// New builds a router over the given routes.
func New(routes []Route, opts ...Option) (*Router, error) {
	return router.New(routes, opts...)
}

// Router construction options.
var (
	WithTrailingSlash   = router.WithTrailingSlash
	WithCaseSensitive   = router.WithCaseSensitive
	WithQueryParamsMode = router.WithQueryParamsMode
	WithEncoding        = router.WithEncoding
	WithDefaultRoute    = router.WithDefaultRoute
	WithAllowNotFound   = router.WithAllowNotFound
	WithoutAutoCleanUp  = router.WithoutAutoCleanUp
)

// Transition error codes.
const (
	CodeRouteNotFound        = router.CodeRouteNotFound
	CodeSameStates           = router.CodeSameStates
	CodeCannotDeactivate     = router.CodeCannotDeactivate
	CodeCannotActivate       = router.CodeCannotActivate
	CodeTransitionErr        = router.CodeTransitionErr
	CodeTransitionCancelled  = router.CodeTransitionCancelled
	CodeRouterNotStarted     = router.CodeRouterNotStarted
	CodeRouterAlreadyStarted = router.CodeRouterAlreadyStarted
	CodeNoStartPathOrState   = router.CodeNoStartPathOrState
)

// Event names observable with Router.AddEventListener.
const (
	EventRouterStart       = router.EventRouterStart
	EventRouterStop        = router.EventRouterStop
	EventTransitionStart   = router.EventTransitionStart
	EventTransitionCancel  = router.EventTransitionCancel
	EventTransitionSuccess = router.EventTransitionSuccess
	EventTransitionError   = router.EventTransitionError
)

// StaticTitle builds a title resolver returning a fixed string.
var StaticTitle = router.StaticTitle
