// Package router drives navigation over a tree of named routes.
//
// A Router owns the route tree, the current navigation state, and the
// side tables attaching behavior to route names: activation and
// deactivation guards, enter/exit/active-chain hooks, title resolvers,
// forward aliases and first-allowed-child redirects. Navigate reconciles
// the current state with a target state through a pipeline of guards and
// middleware, commits the result, and notifies listeners and subscribers.
//
// Tree mutation and path operations complete synchronously. Guards,
// middleware and Navigate itself complete through callbacks; a guard may
// call its completion function from any goroutine. Superseded attempts
// are fenced by a generation token: their late completions are discarded
// and their callbacks receive TRANSITION_CANCELLED. Running guards are
// never preempted.
package router
