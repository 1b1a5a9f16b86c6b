package history

import (
	"encoding/json"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

// serializationVersion is bumped on breaking changes to the persisted
// layout.
const serializationVersion = 1

// persistedState is the JSON shape written by the stores.
type persistedState struct {
	Version    int            `json:"version"`
	Name       string         `json:"name"`
	Params     map[string]any `json:"params,omitempty"`
	Path       string         `json:"path"`
	Redirected bool           `json:"redirected,omitempty"`
	Source     string         `json:"source,omitempty"`
}

// Marshal encodes a state for persistence. Meta provenance is not kept;
// a restored state is re-resolved by the router on StartWithState.
func Marshal(state *router.State) ([]byte, error) {
	ps := persistedState{
		Version: serializationVersion,
		Name:    state.Name,
		Params:  state.Params,
		Path:    state.Path,
	}
	if state.Meta != nil {
		ps.Redirected = state.Meta.Redirected
		ps.Source = state.Meta.Source
	}
	return json.Marshal(ps)
}

// Unmarshal decodes a persisted state.
func Unmarshal(data []byte) (*router.State, error) {
	var ps persistedState
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	return &router.State{
		Name:   ps.Name,
		Params: normalizeParams(ps.Params),
		Path:   ps.Path,
		Meta: &router.Meta{
			Redirected: ps.Redirected,
			Source:     ps.Source,
		},
	}, nil
}

// normalizeParams undoes JSON widening: repeated query values decode as
// []any and must come back as []string to match what matching produces.
func normalizeParams(in map[string]any) router.Params {
	if in == nil {
		return nil
	}
	out := make(router.Params, len(in))
	for k, v := range in {
		switch vv := v.(type) {
		case []any:
			ss := make([]string, 0, len(vv))
			for _, item := range vv {
				if s, ok := item.(string); ok {
					ss = append(ss, s)
				}
			}
			out[k] = ss
		default:
			out[k] = v
		}
	}
	return out
}
