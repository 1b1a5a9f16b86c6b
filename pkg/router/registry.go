package router

import "strings"

// Dependencies is the bag of injected values handed to guard and
// middleware factories. The router hands factories the live map, so
// guards observing it through a closure see later SetDependency calls.
type Dependencies map[string]any

// CompletionFn finishes an asynchronous guard or middleware step. Call it
// with nil to approve, or with an *Error to deny. Extra calls are
// ignored.
type CompletionFn func(err *Error)

// Guard decides whether a segment may activate or deactivate. It must
// eventually call done, from any goroutine.
type Guard func(toState, fromState *State, done CompletionFn)

// GuardFactory builds a Guard given the router and its dependencies.
type GuardFactory func(r *Router, deps Dependencies) Guard

// Middleware runs between guard checks and the commit of every
// transition. Same contract as Guard.
type Middleware func(toState, fromState *State, done CompletionFn)

// MiddlewareFactory builds a Middleware given the router and its
// dependencies.
type MiddlewareFactory func(r *Router, deps Dependencies) Middleware

// NodeHook observes a committed transition on behalf of one segment.
type NodeHook func(toState, fromState *State)

// TitleResolver produces a document title for a state.
type TitleResolver func(state *State) string

// StaticTitle builds a TitleResolver that ignores the state.
func StaticTitle(title string) TitleResolver {
	return func(*State) string { return title }
}

// guardSlot holds a factory plus its memoized instance. Instantiation is
// deferred to first use so factories registered before Start still see
// dependencies added afterward.
type guardSlot struct {
	factory  GuardFactory
	instance Guard
	built    bool
}

type registry struct {
	canActivate   map[string]*guardSlot
	canDeactivate map[string]*guardSlot
	onEnter       map[string]NodeHook
	onExit        map[string]NodeHook
	onActive      map[string]NodeHook
	titles        map[string]TitleResolver
}

func newRegistry() *registry {
	return &registry{
		canActivate:   make(map[string]*guardSlot),
		canDeactivate: make(map[string]*guardSlot),
		onEnter:       make(map[string]NodeHook),
		onExit:        make(map[string]NodeHook),
		onActive:      make(map[string]NodeHook),
		titles:        make(map[string]TitleResolver),
	}
}

// clearUnder drops every registration for name and its descendants.
func (reg *registry) clearUnder(name string) {
	prefix := name + "."
	for _, m := range []map[string]*guardSlot{reg.canActivate, reg.canDeactivate} {
		for k := range m {
			if k == name || strings.HasPrefix(k, prefix) {
				delete(m, k)
			}
		}
	}
	for _, m := range []map[string]NodeHook{reg.onEnter, reg.onExit, reg.onActive} {
		for k := range m {
			if k == name || strings.HasPrefix(k, prefix) {
				delete(m, k)
			}
		}
	}
	for k := range reg.titles {
		if k == name || strings.HasPrefix(k, prefix) {
			delete(reg.titles, k)
		}
	}
}

// CanActivate attaches an activation guard factory to a route name. The
// factory is invoked lazily, once, with the router and its live
// dependency map.
func (r *Router) CanActivate(name string, factory GuardFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reg.canActivate[name] = &guardSlot{factory: factory}
}

// CanActivateFn attaches a plain guard without a factory.
func (r *Router) CanActivateFn(name string, guard Guard) {
	r.CanActivate(name, func(*Router, Dependencies) Guard { return guard })
}

// CanDeactivate attaches a deactivation guard factory to a route name.
func (r *Router) CanDeactivate(name string, factory GuardFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reg.canDeactivate[name] = &guardSlot{factory: factory}
}

// CanDeactivateFn attaches a plain deactivation guard.
func (r *Router) CanDeactivateFn(name string, guard Guard) {
	r.CanDeactivate(name, func(*Router, Dependencies) Guard { return guard })
}

// ClearCanDeactivate removes the deactivation guard for a route name.
// Useful when a component unmounts outside a transition.
func (r *Router) ClearCanDeactivate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.reg.canDeactivate, name)
}

// OnEnterNode registers a hook invoked after a transition activates the
// named segment.
func (r *Router) OnEnterNode(name string, hook NodeHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reg.onEnter[name] = hook
}

// OnExitNode registers a hook invoked after a transition deactivates the
// named segment.
func (r *Router) OnExitNode(name string, hook NodeHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reg.onExit[name] = hook
}

// OnNodeInActiveChain registers a hook invoked when the named segment
// stays active across a transition that changes deeper segments.
func (r *Router) OnNodeInActiveChain(name string, hook NodeHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reg.onActive[name] = hook
}

// RegisterTitle attaches a title resolver to a route name.
func (r *Router) RegisterTitle(name string, resolver TitleResolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reg.titles[name] = resolver
}

// Title resolves the document title for a state by walking its segment
// chain deepest first and returning the first registered resolver's
// result. Returns "" when no segment has a title.
func (r *Router) Title(state *State) string {
	if state == nil {
		return ""
	}
	r.mu.Lock()
	chain := chainNames(state.Name)
	var resolver TitleResolver
	for i := len(chain) - 1; i >= 0; i-- {
		if t, ok := r.reg.titles[chain[i]]; ok {
			resolver = t
			break
		}
	}
	r.mu.Unlock()
	if resolver == nil {
		return ""
	}
	return resolver(state)
}

// SetDependency adds or replaces one injected value.
func (r *Router) SetDependency(name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deps[name] = value
}

// SetDependencies merges the given values into the dependency map.
func (r *Router) SetDependencies(deps Dependencies) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range deps {
		r.deps[k] = v
	}
}

// Dependency reads one injected value.
func (r *Router) Dependency(name string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.deps[name]
	return v, ok
}

// Dependencies returns a snapshot of the injected values.
func (r *Router) Dependencies() Dependencies {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(Dependencies, len(r.deps))
	for k, v := range r.deps {
		out[k] = v
	}
	return out
}

// UseMiddleware appends middleware factories to the transition pipeline.
// Middleware runs on every transition, after guards, in registration
// order.
func (r *Router) UseMiddleware(factories ...MiddlewareFactory) {
	r.mu.Lock()
	deps := r.deps
	r.mu.Unlock()
	// Instantiate outside the lock so factories may call back into the
	// router.
	built := make([]Middleware, 0, len(factories))
	for _, f := range factories {
		built = append(built, f(r, deps))
	}
	r.mu.Lock()
	r.mwFactories = append(r.mwFactories, factories...)
	r.mws = append(r.mws, built...)
	r.mu.Unlock()
}

// ClearMiddleware drops all registered middleware.
func (r *Router) ClearMiddleware() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mwFactories = nil
	r.mws = nil
}
