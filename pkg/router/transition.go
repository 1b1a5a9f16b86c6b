package router

import "sync"

// DoneFn receives the outcome of a navigation: a nil err with the
// committed states, or a non-nil err describing why nothing committed.
type DoneFn func(err *Error, toState, fromState *State)

// transition is one navigation attempt. It is fenced by gen: the attempt
// only observes completions and commits while gen still equals the
// router's generation counter. finished is guarded by the router mutex.
type transition struct {
	r         *Router
	gen       int64
	id        int64
	toState   *State
	fromState *State
	opts      NavigationOptions
	done      DoneFn
	finished  bool
}

// finish retires the attempt exactly once, emitting the given event name
// when non-empty and invoking the callback.
func (tr *transition) finish(err *Error, event string) {
	r := tr.r
	r.mu.Lock()
	if tr.finished {
		r.mu.Unlock()
		return
	}
	tr.finished = true
	if r.activeTr == tr {
		r.activeTr = nil
	}
	r.mu.Unlock()
	if event != "" {
		r.bus.invoke(event, TransitionEvent{
			ToState:   tr.toState,
			FromState: tr.fromState,
			Err:       err,
			Options:   tr.opts,
		})
	}
	if tr.done != nil {
		tr.done(err, tr.toState, tr.fromState)
	}
}

func (tr *transition) fail(err *Error) { tr.finish(err, EventTransitionError) }

// failQuiet retires the attempt without an event, for failures that occur
// before the transition proper starts.
func (tr *transition) failQuiet(err *Error) { tr.finish(err, "") }

func (tr *transition) cancel() {
	tr.finish(&Error{Code: CodeTransitionCancelled}, EventTransitionCancel)
}

// stepDone wraps a pipeline continuation into the CompletionFn handed to
// a guard or middleware: the first call wins, and completions arriving
// after the attempt was superseded or the router stopped collapse into a
// cancellation instead of reaching cb.
func (r *Router) stepDone(tr *transition, cb func(*Error)) CompletionFn {
	var once sync.Once
	return func(err *Error) {
		once.Do(func() {
			r.mu.Lock()
			stale := tr.finished || r.generation != tr.gen || !r.started
			r.mu.Unlock()
			if stale {
				tr.cancel()
				return
			}
			cb(err)
		})
	}
}

type pipelineStep struct {
	fn      Middleware
	code    string
	segment string
}

// executeTransition runs the guard and middleware pipeline for a resolved
// attempt and commits on success. toState must be set.
func (r *Router) executeTransition(tr *transition) {
	if !tr.opts.Force && !tr.opts.Reload && tr.fromState != nil &&
		statesEqual(tr.toState, tr.fromState, !r.cfg.strictQueryEquality) {
		tr.failQuiet(newError(CodeSameStates, tr.toState.Name))
		return
	}

	r.bus.invoke(EventTransitionStart, TransitionEvent{
		ToState:   tr.toState,
		FromState: tr.fromState,
		Options:   tr.opts,
	})

	diff := computeDiff(tr.toState, tr.fromState, tr.opts.Reload)

	var steps []pipelineStep
	for _, name := range diff.deactivate {
		if g := r.guardFor("deactivate", name); g != nil {
			steps = append(steps, pipelineStep{fn: Middleware(g), code: CodeCannotDeactivate, segment: name})
		}
	}
	for _, name := range diff.activate {
		if g := r.guardFor("activate", name); g != nil {
			steps = append(steps, pipelineStep{fn: Middleware(g), code: CodeCannotActivate, segment: name})
		}
	}
	r.mu.Lock()
	mws := make([]Middleware, len(r.mws))
	copy(mws, r.mws)
	r.mu.Unlock()
	for _, mw := range mws {
		steps = append(steps, pipelineStep{fn: mw, code: CodeTransitionErr})
	}

	var runStep func(i int)
	runStep = func(i int) {
		if i == len(steps) {
			r.commit(tr, diff)
			return
		}
		step := steps[i]
		done := r.stepDone(tr, func(err *Error) {
			if err == nil {
				runStep(i + 1)
				return
			}
			if err.Redirect != nil {
				r.followRedirect(tr, err.Redirect)
				return
			}
			tr.fail(normalizeError(err, step.code, step.segment))
		})
		step.fn(tr.toState, tr.fromState, done)
	}
	runStep(0)
}

// followRedirect retires the attempt without invoking its callback and
// hands the callback to a replacing navigation toward the redirect
// target.
func (r *Router) followRedirect(tr *transition, rd *Redirect) {
	r.mu.Lock()
	already := tr.finished
	if !already {
		tr.finished = true
		if r.activeTr == tr {
			r.activeTr = nil
		}
	}
	r.mu.Unlock()
	if already {
		return
	}
	opts := tr.opts
	opts.Replace = true
	opts.Redirected = true
	r.navigate(rd.Name, rd.Params, opts, tr.done)
}

// commit finalizes a transition: node hooks fire first, then the state
// swap, then success notifications. The generation is re-checked around
// the hook phase since hooks may navigate.
func (r *Router) commit(tr *transition, diff transitionDiff) {
	r.mu.Lock()
	if tr.finished || r.generation != tr.gen || !r.started {
		r.mu.Unlock()
		tr.cancel()
		return
	}
	var exits, enters, actives []NodeHook
	for _, name := range diff.deactivate {
		if h, ok := r.reg.onExit[name]; ok {
			exits = append(exits, h)
		}
	}
	for _, name := range diff.activate {
		if h, ok := r.reg.onEnter[name]; ok {
			enters = append(enters, h)
		}
	}
	for _, name := range diff.intersection {
		if h, ok := r.reg.onActive[name]; ok {
			actives = append(actives, h)
		}
	}
	r.mu.Unlock()

	for _, h := range exits {
		h(tr.toState, tr.fromState)
	}
	for _, h := range enters {
		h(tr.toState, tr.fromState)
	}
	for _, h := range actives {
		h(tr.toState, tr.fromState)
	}

	r.mu.Lock()
	if tr.finished || r.generation != tr.gen || !r.started {
		r.mu.Unlock()
		tr.cancel()
		return
	}
	r.current = tr.toState
	if r.cfg.autoCleanUp {
		for _, name := range diff.deactivate {
			delete(r.reg.canDeactivate, name)
		}
	}
	tr.finished = true
	if r.activeTr == tr {
		r.activeTr = nil
	}
	r.mu.Unlock()

	r.bus.invoke(EventTransitionSuccess, TransitionEvent{
		ToState:   tr.toState,
		FromState: tr.fromState,
		Options:   tr.opts,
	})
	if tr.done != nil {
		tr.done(nil, tr.toState, tr.fromState)
	}
}
