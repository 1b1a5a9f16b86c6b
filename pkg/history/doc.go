// Package history records committed navigation states and persists them.
//
// MemoryHistory mirrors a browser-style entry stack over a router: every
// committed transition pushes or replaces an entry, and Back, Forward and
// Go replay recorded entries through the router with a "popstate" source.
//
// StateStore abstracts durable persistence of a single state snapshot per
// key, with in-memory, Redis and S3 backends, so an application can
// restore its last location across restarts with Router.StartWithState.
package history
