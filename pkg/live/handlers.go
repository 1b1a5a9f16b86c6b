package live

import (
	"encoding/json"
	"net/http"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

// stateJSON is the wire shape of a router state.
type stateJSON struct {
	Name   string        `json:"name"`
	Params router.Params `json:"params,omitempty"`
	Path   string        `json:"path"`
}

type optionsJSON struct {
	Replace bool `json:"replace,omitempty"`
	Reload  bool `json:"reload,omitempty"`
	Force   bool `json:"force,omitempty"`
}

type navigateRequest struct {
	Name    string        `json:"name"`
	Params  router.Params `json:"params,omitempty"`
	Options optionsJSON   `json:"options,omitempty"`
}

type navigateResponse struct {
	State *stateJSON `json:"state,omitempty"`
	Error *errorJSON `json:"error,omitempty"`
}

type errorJSON struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Segment string `json:"segment,omitempty"`
}

func toStateJSON(st *router.State) *stateJSON {
	if st == nil {
		return nil
	}
	return &stateJSON{Name: st.Name, Params: st.Params, Path: st.Path}
}

func toErrorJSON(err *router.Error) *errorJSON {
	if err == nil {
		return nil
	}
	return &errorJSON{Code: err.Code, Message: err.Message, Segment: err.Segment}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.router.GetState()
	if st == nil {
		writeJSON(w, http.StatusNotFound, navigateResponse{
			Error: &errorJSON{Code: router.CodeRouterNotStarted, Message: "no committed state"},
		})
		return
	}
	writeJSON(w, http.StatusOK, toStateJSON(st))
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, navigateResponse{
			Error: &errorJSON{Code: "BAD_REQUEST", Message: err.Error()},
		})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, navigateResponse{
			Error: &errorJSON{Code: "BAD_REQUEST", Message: "name is required"},
		})
		return
	}

	opts := router.NavigationOptions{
		Replace: req.Options.Replace,
		Reload:  req.Options.Reload,
		Force:   req.Options.Force,
		Source:  "live",
	}
	outcome := make(chan navigateResponse, 1)
	s.router.Navigate(req.Name, req.Params, opts, func(err *router.Error, to, from *router.State) {
		if err != nil {
			outcome <- navigateResponse{Error: toErrorJSON(err)}
			return
		}
		outcome <- navigateResponse{State: toStateJSON(to)}
	})

	select {
	case resp := <-outcome:
		status := http.StatusOK
		if resp.Error != nil {
			status = statusForCode(resp.Error.Code)
		}
		writeJSON(w, status, resp)
	case <-r.Context().Done():
		// Client went away; the navigation continues regardless.
	}
}

func statusForCode(code string) int {
	switch code {
	case router.CodeRouteNotFound:
		return http.StatusNotFound
	case router.CodeCannotActivate, router.CodeCannotDeactivate:
		return http.StatusForbidden
	case router.CodeSameStates:
		return http.StatusConflict
	case router.CodeRouterNotStarted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}
