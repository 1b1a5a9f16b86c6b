package router

import "github.com/wayfare-dev/wayfare/pkg/routetree"

// Navigate starts a transition toward the named route. done may be nil.
// A Navigate issued while another attempt is in flight supersedes it
// immediately: the older attempt's callback receives
// TRANSITION_CANCELLED and none of its remaining work commits.
func (r *Router) Navigate(name string, params Params, opts NavigationOptions, done DoneFn) {
	r.navigate(name, params, opts, done)
}

// NavigateToDefault navigates to the configured default route.
func (r *Router) NavigateToDefault(opts NavigationOptions, done DoneFn) {
	name, params := r.cfg.defaultRoute, r.cfg.defaultParams
	if name == "" {
		if done != nil {
			done(newError(CodeRouteNotFound, "no default route configured"), nil, nil)
		}
		return
	}
	r.navigate(name, params, opts, done)
}

func (r *Router) navigate(name string, params Params, opts NavigationOptions, done DoneFn) {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		if done != nil {
			done(newError(CodeRouterNotStarted, ""), nil, nil)
		}
		return
	}
	name = r.resolveForwardLocked(name)
	merged := r.mergeDefaultsLocked(name, params)

	r.generation++
	r.stateID++
	gen := r.generation
	id := r.stateID
	prev := r.activeTr
	fromState := r.current

	tr := &transition{r: r, gen: gen, id: id, fromState: fromState, opts: opts, done: done}
	r.activeTr = tr
	r.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}

	r.resolveFirstAllowed(tr, name, merged, func(finalName string, err *Error) {
		if err != nil {
			tr.failQuiet(err)
			return
		}
		finalParams := merged
		if finalName != name {
			r.mu.Lock()
			finalParams = r.mergeDefaultsLocked(finalName, merged)
			r.mu.Unlock()
		}
		toState, berr := r.makeState(finalName, finalParams, opts, id)
		if berr != nil {
			tr.failQuiet(berr)
			return
		}
		tr.toState = toState
		r.executeTransition(tr)
	})
}

// resolveFirstAllowed maps a navigation target through the
// first-allowed-child table: targets flagged by RedirectToFirstAllowNode
// resolve to their first child, in specificity order, whose activation
// guard permits, descending recursively while children stay flagged.
func (r *Router) resolveFirstAllowed(tr *transition, name string, params Params, cb func(string, *Error)) {
	r.mu.Lock()
	flagged := r.redirectFirstAllow[name]
	var children []*routetree.Node
	if flagged {
		if node, ok := r.tree.Find(name); ok {
			children = node.Children()
		}
	}
	r.mu.Unlock()
	if !flagged || len(children) == 0 {
		cb(name, nil)
		return
	}
	r.tryFirstAllowedChild(tr, children, 0, params, cb)
}

func (r *Router) tryFirstAllowedChild(tr *transition, children []*routetree.Node, i int, params Params, cb func(string, *Error)) {
	if i == len(children) {
		cb("", &Error{Code: CodeRouteNotFound, Message: "no permitted child"})
		return
	}
	name := children[i].FullName()
	r.mu.Lock()
	candidateParams := r.mergeDefaultsLocked(name, params)
	r.mu.Unlock()
	candidate, err := r.makeState(name, candidateParams, tr.opts, tr.id)
	if err != nil {
		// Not buildable with these params; try the next sibling.
		r.tryFirstAllowedChild(tr, children, i+1, params, cb)
		return
	}
	guard := r.guardFor("activate", name)
	if guard == nil {
		r.resolveFirstAllowed(tr, name, params, cb)
		return
	}
	done := r.stepDone(tr, func(gerr *Error) {
		switch {
		case gerr == nil:
			r.resolveFirstAllowed(tr, name, params, cb)
		case gerr.Redirect != nil:
			r.followRedirect(tr, gerr.Redirect)
		default:
			r.tryFirstAllowedChild(tr, children, i+1, params, cb)
		}
	})
	guard(candidate, tr.fromState, done)
}

// Start activates the router and performs the initial transition from
// path. An empty path falls back to the default route; an unmatchable
// path falls back to the default route or, when allow-not-found is
// configured, commits a synthetic UnknownRouteName state. done may be
// nil.
func (r *Router) Start(path string, done DoneFn) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		if done != nil {
			done(newError(CodeRouterAlreadyStarted, ""), nil, nil)
		}
		return
	}
	r.started = true
	r.mu.Unlock()
	r.bus.invoke(EventRouterStart, TransitionEvent{})

	opts := NavigationOptions{Replace: true, Source: "start"}
	if path == "" {
		if r.cfg.defaultRoute != "" {
			r.navigate(r.cfg.defaultRoute, r.cfg.defaultParams, opts, done)
			return
		}
		if done != nil {
			done(newError(CodeNoStartPathOrState, ""), nil, nil)
		}
		return
	}

	if st := r.MatchPath(path, "start"); st != nil {
		r.navigate(st.Name, st.Params, opts, done)
		return
	}
	if r.cfg.defaultRoute != "" {
		r.navigate(r.cfg.defaultRoute, r.cfg.defaultParams, opts, done)
		return
	}
	if r.cfg.allowNotFound {
		r.commitNotFound(path, opts, done)
		return
	}
	if done != nil {
		done(newError(CodeRouteNotFound, path), nil, nil)
	}
}

// StartWithState activates the router and transitions to an externally
// persisted state, typically one restored by a history store.
func (r *Router) StartWithState(state *State, done DoneFn) {
	if state == nil {
		if done != nil {
			done(newError(CodeNoStartPathOrState, ""), nil, nil)
		}
		return
	}
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		if done != nil {
			done(newError(CodeRouterAlreadyStarted, ""), nil, nil)
		}
		return
	}
	r.started = true
	r.mu.Unlock()
	r.bus.invoke(EventRouterStart, TransitionEvent{})
	r.navigate(state.Name, state.Params, NavigationOptions{Replace: true, Source: "start"}, done)
}

// commitNotFound installs the synthetic unknown-route state without
// running guards; there is no route to guard.
func (r *Router) commitNotFound(path string, opts NavigationOptions, done DoneFn) {
	r.mu.Lock()
	r.stateID++
	st := &State{
		Name:   UnknownRouteName,
		Params: Params{"path": path},
		Path:   path,
		Meta: &Meta{
			ID:      r.stateID,
			Params:  map[string]map[string]string{},
			Options: opts,
			Source:  opts.Source,
		},
	}
	from := r.current
	r.current = st
	r.mu.Unlock()
	r.bus.invoke(EventTransitionSuccess, TransitionEvent{ToState: st, FromState: from, Options: opts})
	if done != nil {
		done(nil, st, from)
	}
}

// Stop deactivates the router. The in-flight attempt, if any, is
// cancelled; the committed state is kept so a later Start can observe it.
func (r *Router) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	r.generation++
	prev := r.activeTr
	r.activeTr = nil
	r.mu.Unlock()
	if prev != nil {
		prev.cancel()
	}
	r.bus.invoke(EventRouterStop, TransitionEvent{})
}
