// Package routesfile loads route trees and router options from YAML
// files, so tools can operate on a routing scheme without compiling it
// in.
package routesfile

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/wayfare-dev/wayfare/pkg/pathtmpl"
	"github.com/wayfare-dev/wayfare/pkg/router"
)

// File is the top-level YAML document.
type File struct {
	Options OptionsSpec `mapstructure:"options"`
	Routes  []RouteSpec `mapstructure:"routes"`
}

// OptionsSpec mirrors the router options expressible in a file.
type OptionsSpec struct {
	TrailingSlash string         `mapstructure:"trailingSlash"`
	CaseSensitive bool           `mapstructure:"caseSensitive"`
	QueryParams   string         `mapstructure:"queryParams"`
	DefaultRoute  string         `mapstructure:"defaultRoute"`
	DefaultParams map[string]any `mapstructure:"defaultParams"`
	AllowNotFound bool           `mapstructure:"allowNotFound"`
}

// RouteSpec is one node of the declared tree.
type RouteSpec struct {
	Name          string         `mapstructure:"name"`
	Path          string         `mapstructure:"path"`
	ForwardTo     string         `mapstructure:"forwardTo"`
	Title         string         `mapstructure:"title"`
	DefaultParams map[string]any `mapstructure:"defaultParams"`
	Children      []RouteSpec    `mapstructure:"children"`
}

// Load reads and parses a routes file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("routesfile: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document. YAML is unmarshalled generically first
// and mapped onto the typed spec, so unknown keys surface as errors
// instead of being dropped.
func Parse(data []byte) (*File, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("routesfile: parse yaml: %w", err)
	}
	var f File
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &f,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("routesfile: %w", err)
	}
	if err := validateOptions(f.Options); err != nil {
		return nil, err
	}
	if err := validate(f.Routes); err != nil {
		return nil, err
	}
	return &f, nil
}

func validateOptions(o OptionsSpec) error {
	switch o.TrailingSlash {
	case "", "default", "never", "always":
	default:
		return fmt.Errorf("routesfile: invalid trailingSlash %q", o.TrailingSlash)
	}
	switch o.QueryParams {
	case "", "default", "strict", "loose":
	default:
		return fmt.Errorf("routesfile: invalid queryParams %q", o.QueryParams)
	}
	return nil
}

func validate(routes []RouteSpec) error {
	for _, rt := range routes {
		if rt.Name == "" {
			return fmt.Errorf("routesfile: route with path %q has no name", rt.Path)
		}
		if rt.Path == "" {
			return fmt.Errorf("routesfile: route %q has no path", rt.Name)
		}
		if err := validate(rt.Children); err != nil {
			return err
		}
	}
	return nil
}

// Router constructs a started-ready router from the file.
func (f *File) Router() (*router.Router, error) {
	r, err := router.New(f.RouterRoutes(), f.RouterOptions()...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// RouterRoutes converts the declared tree to router.Route values.
func (f *File) RouterRoutes() []router.Route {
	return convertRoutes(f.Routes)
}

func convertRoutes(specs []RouteSpec) []router.Route {
	out := make([]router.Route, 0, len(specs))
	for _, spec := range specs {
		rt := router.Route{
			Name:      spec.Name,
			Path:      spec.Path,
			ForwardTo: spec.ForwardTo,
			Children:  convertRoutes(spec.Children),
		}
		if spec.DefaultParams != nil {
			rt.DefaultParams = router.Params(spec.DefaultParams)
		}
		if spec.Title != "" {
			rt.Title = router.StaticTitle(spec.Title)
		}
		out = append(out, rt)
	}
	return out
}

// RouterOptions converts the options block.
func (f *File) RouterOptions() []router.Option {
	var opts []router.Option
	switch f.Options.TrailingSlash {
	case "", "default":
	case "never":
		opts = append(opts, router.WithTrailingSlash(pathtmpl.TrailingSlashNever))
	case "always":
		opts = append(opts, router.WithTrailingSlash(pathtmpl.TrailingSlashAlways))
	}
	switch f.Options.QueryParams {
	case "", "default":
	case "strict":
		opts = append(opts, router.WithQueryParamsMode(pathtmpl.QueryParamsStrict))
	case "loose":
		opts = append(opts, router.WithQueryParamsMode(pathtmpl.QueryParamsLoose))
	}
	if f.Options.CaseSensitive {
		opts = append(opts, router.WithCaseSensitive(true))
	}
	if f.Options.DefaultRoute != "" {
		opts = append(opts, router.WithDefaultRoute(f.Options.DefaultRoute, router.Params(f.Options.DefaultParams)))
	}
	if f.Options.AllowNotFound {
		opts = append(opts, router.WithAllowNotFound(true))
	}
	return opts
}
