package history

import (
	"errors"
	"sync"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

// SourcePop labels navigations replayed from the history stack. Entries
// committed with this source move the cursor instead of growing the
// stack.
const SourcePop = "popstate"

// ErrOutOfRange is reported when Back, Forward or Go would move the
// cursor outside the recorded entries.
var ErrOutOfRange = errors.New("history: no entry at requested offset")

// MemoryHistory keeps an in-process entry stack synchronized with a
// router. Committed transitions append entries; replace navigations swap
// the current one; navigating after going back truncates the forward
// tail, matching browser history behavior.
type MemoryHistory struct {
	mu      sync.Mutex
	r       *router.Router
	entries []*router.State
	index   int
	unsub   func()
}

// NewMemoryHistory attaches a history stack to the router. Detach with
// Close.
func NewMemoryHistory(r *router.Router) *MemoryHistory {
	h := &MemoryHistory{r: r, index: -1}
	h.unsub = r.AddEventListener(router.EventTransitionSuccess, h.onTransition)
	return h
}

// Close detaches the history from the router, keeping recorded entries
// readable.
func (h *MemoryHistory) Close() {
	if h.unsub != nil {
		h.unsub()
		h.unsub = nil
	}
}

func (h *MemoryHistory) onTransition(ev router.TransitionEvent) {
	if ev.ToState == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if ev.Options.Source == SourcePop {
		// Cursor movement was recorded by the initiating call.
		return
	}
	if ev.Options.Replace && h.index >= 0 {
		h.entries[h.index] = ev.ToState
		return
	}
	h.entries = append(h.entries[:h.index+1], ev.ToState)
	h.index++
}

// Length returns the number of recorded entries.
func (h *MemoryHistory) Length() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Current returns the entry under the cursor, nil when empty.
func (h *MemoryHistory) Current() *router.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.index < 0 {
		return nil
	}
	return h.entries[h.index]
}

// CanGo reports whether the cursor can move by delta entries.
func (h *MemoryHistory) CanGo(delta int) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	target := h.index + delta
	return target >= 0 && target < len(h.entries)
}

// Go replays the entry delta steps away through the router. The cursor
// moves only if the navigation commits. done may be nil.
func (h *MemoryHistory) Go(delta int, done router.DoneFn) {
	h.mu.Lock()
	target := h.index + delta
	if target < 0 || target >= len(h.entries) {
		h.mu.Unlock()
		if done != nil {
			done(&router.Error{Code: router.CodeRouteNotFound, Message: ErrOutOfRange.Error(), Err: ErrOutOfRange}, nil, nil)
		}
		return
	}
	entry := h.entries[target]
	h.mu.Unlock()

	opts := router.NavigationOptions{Replace: true, Source: SourcePop}
	h.r.Navigate(entry.Name, entry.Params, opts, func(err *router.Error, to, from *router.State) {
		if err == nil {
			h.mu.Lock()
			if target < len(h.entries) {
				h.index = target
			}
			h.mu.Unlock()
		}
		if done != nil {
			done(err, to, from)
		}
	})
}

// Back replays the previous entry.
func (h *MemoryHistory) Back(done router.DoneFn) { h.Go(-1, done) }

// Forward replays the next entry.
func (h *MemoryHistory) Forward(done router.DoneFn) { h.Go(1, done) }
