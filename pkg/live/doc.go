// Package live exposes a router over HTTP and WebSocket.
//
// Server mounts three endpoints on a chi router:
//
//	GET  /state     current committed state as JSON
//	POST /navigate  drive a navigation, responding with the outcome
//	GET  /ws        WebSocket pushing every committed state
//
// The handler integrates with any mux accepting an http.Handler. When a
// history.StateStore is configured, every committed state is persisted
// under the configured key so a restarted process can resume with
// Router.StartWithState.
package live
