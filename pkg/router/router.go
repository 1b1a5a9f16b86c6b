package router

import (
	"strings"
	"sync"

	"github.com/wayfare-dev/wayfare/pkg/routetree"
)

// ParamsCodec rewrites a parameter set. Decoders run after a path match,
// encoders before a path build, letting callers keep typed values in
// application code and strings on the wire.
type ParamsCodec func(Params) Params

// Route declares one node of the route tree together with the behavior
// attached to it. Children nest under the parent's name and path. A Name
// may itself be dotted to address an existing deeper parent, and a Path
// beginning with "~" marks the node absolute: it matches and builds from
// the root, ignoring ancestor paths.
type Route struct {
	Name          string
	Path          string
	Children      []Route
	CanActivate   GuardFactory
	ForwardTo     string
	DefaultParams Params
	EncodeParams  ParamsCodec
	DecodeParams  ParamsCodec
	Title         TitleResolver
}

// Router is the navigation engine. All methods are safe for concurrent
// use.
type Router struct {
	mu  sync.Mutex
	cfg config

	tree *routetree.Node
	reg  *registry
	deps Dependencies
	bus  *eventBus

	started bool
	current *State

	// generation fences asynchronous transition work; activeTr is the
	// attempt currently in flight, nil when idle.
	generation int64
	activeTr   *transition
	stateID    int64

	mwFactories []MiddlewareFactory
	mws         []Middleware

	forwards           map[string]string
	redirectFirstAllow map[string]bool
	encoders           map[string]ParamsCodec
	decoders           map[string]ParamsCodec
	routeDefaults      map[string]Params
}

// New builds a router over the given routes. Routes may be empty and
// added later with Add.
func New(routes []Route, opts ...Option) (*Router, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Router{
		cfg:                cfg,
		tree:               routetree.New(cfg.treeOptions()...),
		reg:                newRegistry(),
		deps:               make(Dependencies),
		bus:                newEventBus(),
		forwards:           make(map[string]string),
		redirectFirstAllow: make(map[string]bool),
		encoders:           make(map[string]ParamsCodec),
		decoders:           make(map[string]ParamsCodec),
		routeDefaults:      make(map[string]Params),
	}
	if err := r.Add(routes...); err != nil {
		return nil, err
	}
	return r, nil
}

// Add inserts routes into the tree. Same-named siblings merge, and the
// attached guards, forwards, codecs and titles are registered under the
// route's full dotted name. Structural problems, a missing parent, a
// duplicate sibling path, a forward cycle, abort with an error; routes
// added before the failing one stay added.
func (r *Router) Add(routes ...Route) error {
	for _, route := range routes {
		if err := r.addRoute("", route); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) addRoute(parent string, route Route) error {
	fullName := route.Name
	if parent != "" {
		fullName = parent + "." + route.Name
	}

	def := routetree.Definition{Name: route.Name, Path: route.Path}
	r.mu.Lock()
	err := r.tree.Add(def, nil, true)
	r.mu.Unlock()
	if err != nil {
		return err
	}

	r.registerRouteExtras(fullName, route)
	if route.ForwardTo != "" {
		if err := r.Forward(fullName, route.ForwardTo); err != nil {
			return err
		}
	}
	for _, child := range route.Children {
		if err := r.addRoute(fullName, child); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) registerRouteExtras(fullName string, route Route) {
	r.mu.Lock()
	if route.CanActivate != nil {
		r.reg.canActivate[fullName] = &guardSlot{factory: route.CanActivate}
	}
	if route.DefaultParams != nil {
		r.routeDefaults[fullName] = route.DefaultParams
	}
	if route.EncodeParams != nil {
		r.encoders[fullName] = route.EncodeParams
	}
	if route.DecodeParams != nil {
		r.decoders[fullName] = route.DecodeParams
	}
	if route.Title != nil {
		r.reg.titles[fullName] = route.Title
	}
	r.mu.Unlock()
}

// AddNode grafts a prebuilt subtree under the root, preserving
// specificity ordering among its new siblings. Guards, titles and codecs
// are not carried by nodes; register them by full name afterwards.
func (r *Router) AddNode(node *routetree.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree.AddNode(node, nil, true)
}

// Remove detaches the child of the root named by the first dot-separated
// token of name, dropping its whole subtree. Every registration under the
// removed subtree, guards, hooks, titles, forwards, redirects and codecs,
// is cleared. Reports whether anything was removed.
func (r *Router) Remove(name string) bool {
	first := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		first = name[:i]
	}
	r.mu.Lock()
	removed := r.tree.Remove(name)
	if removed {
		r.clearRegistrationsLocked(first)
	}
	r.mu.Unlock()
	return removed
}

// RemoveByFullName detaches exactly the node addressed by the full dotted
// name, leaving siblings intact, and clears registrations under it.
func (r *Router) RemoveByFullName(name string) bool {
	r.mu.Lock()
	removed := r.tree.RemoveByFullName(name)
	if removed {
		r.clearRegistrationsLocked(name)
	}
	r.mu.Unlock()
	return removed
}

func (r *Router) clearRegistrationsLocked(name string) {
	r.reg.clearUnder(name)
	prefix := name + "."
	covers := func(k string) bool {
		return k == name || strings.HasPrefix(k, prefix)
	}
	for k := range r.forwards {
		if covers(k) {
			delete(r.forwards, k)
		}
	}
	for k := range r.redirectFirstAllow {
		if covers(k) {
			delete(r.redirectFirstAllow, k)
		}
	}
	for k := range r.encoders {
		if covers(k) {
			delete(r.encoders, k)
		}
	}
	for k := range r.decoders {
		if covers(k) {
			delete(r.decoders, k)
		}
	}
	for k := range r.routeDefaults {
		if covers(k) {
			delete(r.routeDefaults, k)
		}
	}
}

// HasRoute reports whether a full dotted name is registered.
func (r *Router) HasRoute(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tree.Find(name)
	return ok
}

// Forward registers an alias: navigating to from resolves to to before
// any matching or guard work. Returns ErrForwardCycle if the alias would
// make resolution loop.
func (r *Router) Forward(from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{from: true}
	for next := to; next != ""; next = r.forwards[next] {
		if seen[next] {
			return ErrForwardCycle
		}
		seen[next] = true
	}
	r.forwards[from] = to
	return nil
}

func (r *Router) resolveForwardLocked(name string) string {
	for {
		next, ok := r.forwards[name]
		if !ok {
			return name
		}
		name = next
	}
}

// RedirectToFirstAllowNode makes navigations targeting name descend into
// its first child whose activation guard permits, recursively.
func (r *Router) RedirectToFirstAllowNode(name string) {
	r.mu.Lock()
	r.redirectFirstAllow[name] = true
	r.mu.Unlock()
}

// SetParamsEncoder attaches an encoder codec run before building paths
// for the named route.
func (r *Router) SetParamsEncoder(name string, codec ParamsCodec) {
	r.mu.Lock()
	r.encoders[name] = codec
	r.mu.Unlock()
}

// SetParamsDecoder attaches a decoder codec run after matching paths for
// the named route.
func (r *Router) SetParamsDecoder(name string, codec ParamsCodec) {
	r.mu.Lock()
	r.decoders[name] = codec
	r.mu.Unlock()
}

// SetRouteDefaults sets parameter defaults merged under explicit params
// whenever the named route is navigated to or built.
func (r *Router) SetRouteDefaults(name string, params Params) {
	r.mu.Lock()
	r.routeDefaults[name] = params
	r.mu.Unlock()
}

// MatchPath matches a concrete path against the tree and produces a
// State, or nil when nothing matches. The state's meta has ID 0; source
// labels where the path came from (for example "popstate").
func (r *Router) MatchPath(path, source string) *State {
	r.mu.Lock()
	m := r.tree.MatchPath(path)
	var decoder ParamsCodec
	if m != nil && len(m.Segments) > 0 {
		decoder = r.decoders[m.Segments[len(m.Segments)-1].FullName()]
	}
	r.mu.Unlock()
	if m == nil || len(m.Segments) == 0 {
		return nil
	}
	name := m.Segments[len(m.Segments)-1].FullName()
	params := m.Params
	if decoder != nil {
		params = decoder(params)
	}
	return &State{
		Name:   name,
		Params: params,
		Path:   path,
		Meta: &Meta{
			Params: m.Meta,
			Source: source,
		},
	}
}

// BuildPath builds the concrete path for a route name, merging the
// route's default params under the given ones and applying its encoder
// codec.
func (r *Router) BuildPath(name string, params Params) (string, error) {
	r.mu.Lock()
	name = r.resolveForwardLocked(name)
	merged := r.mergeDefaultsLocked(name, params)
	if enc := r.encoders[name]; enc != nil {
		merged = enc(merged)
	}
	path, err := r.tree.BuildPath(name, merged)
	r.mu.Unlock()
	return path, err
}

// BuildState resolves a route name and params into a State without
// navigating, or nil if the name is unknown or required params are
// missing.
func (r *Router) BuildState(name string, params Params) *State {
	r.mu.Lock()
	name = r.resolveForwardLocked(name)
	merged := r.mergeDefaultsLocked(name, params)
	r.mu.Unlock()
	state, _ := r.makeState(name, merged, NavigationOptions{}, 0)
	return state
}

func (r *Router) mergeDefaultsLocked(name string, params Params) Params {
	defaults := r.routeDefaults[name]
	merged := make(Params, len(defaults)+len(params))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

// makeState builds the committed-state value for a resolved target.
// Params must already include route defaults.
func (r *Router) makeState(name string, params Params, opts NavigationOptions, id int64) (*State, *Error) {
	r.mu.Lock()
	buildParams := params
	if enc := r.encoders[name]; enc != nil {
		buildParams = enc(params)
	}
	path, err := r.tree.BuildPath(name, buildParams)
	_, found := r.tree.Find(name)
	var meta map[string]map[string]string
	if err == nil {
		if m, ok := r.tree.BuildState(name, buildParams); ok {
			meta = m.Meta
		}
	}
	r.mu.Unlock()
	if err != nil {
		if !found {
			return nil, &Error{Code: CodeRouteNotFound, Message: name, Err: err}
		}
		return nil, &Error{Code: CodeTransitionErr, Message: "cannot build path for " + name, Err: err}
	}
	return &State{
		Name:   name,
		Params: params,
		Path:   path,
		Meta: &Meta{
			ID:         id,
			Params:     meta,
			Options:    opts,
			Redirected: opts.Redirected,
			Source:     opts.Source,
		},
	}, nil
}

// GetState returns the current committed state, nil before the first
// successful transition.
func (r *Router) GetState() *State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SetState replaces the current state without running the transition
// pipeline. History adapters use it to adopt externally restored states.
func (r *Router) SetState(state *State) {
	r.mu.Lock()
	r.current = state
	r.mu.Unlock()
}

// IsStarted reports whether Start has run and Stop has not.
func (r *Router) IsStarted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// IsActive reports whether the named route is on the current state's
// segment chain with the given params. With strictEquality the name must
// equal the current leaf exactly; otherwise any ancestor matches.
// ignoreQuery excludes query parameters from the comparison.
func (r *Router) IsActive(name string, params Params, strictEquality, ignoreQuery bool) bool {
	current := r.GetState()
	if current == nil {
		return false
	}
	if strictEquality || current.Name == name {
		probe := r.BuildState(name, params)
		if probe == nil {
			return false
		}
		return statesEqual(current, probe, ignoreQuery)
	}
	for _, seg := range chainNames(current.Name) {
		if seg != name {
			continue
		}
		for k, v := range params {
			if !paramEqual(current.Params[k], v) {
				return false
			}
		}
		return true
	}
	return false
}

// RootNode exposes the underlying tree for read-only inspection.
func (r *Router) RootNode() *routetree.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tree
}

// Config accessors used by adapters.

// DefaultRoute returns the configured fallback route name, "" when none.
func (r *Router) DefaultRoute() (string, Params) {
	return r.cfg.defaultRoute, r.cfg.defaultParams
}

func (r *Router) guardFor(kind string, name string) Guard {
	r.mu.Lock()
	var slot *guardSlot
	switch kind {
	case "activate":
		slot = r.reg.canActivate[name]
	case "deactivate":
		slot = r.reg.canDeactivate[name]
	}
	if slot == nil {
		r.mu.Unlock()
		return nil
	}
	if slot.built {
		g := slot.instance
		r.mu.Unlock()
		return g
	}
	deps := r.deps
	r.mu.Unlock()
	g := slot.factory(r, deps)
	r.mu.Lock()
	if !slot.built {
		slot.instance = g
		slot.built = true
	}
	g = slot.instance
	r.mu.Unlock()
	return g
}
