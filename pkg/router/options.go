package router

import (
	"github.com/wayfare-dev/wayfare/pkg/pathtmpl"
	"github.com/wayfare-dev/wayfare/pkg/routetree"
)

type config struct {
	trailingSlash   pathtmpl.TrailingSlashMode
	caseSensitive   bool
	queryParamsMode pathtmpl.QueryParamsMode
	encoding        pathtmpl.Encoding

	defaultRoute  string
	defaultParams Params

	allowNotFound bool
	autoCleanUp   bool
	// strictQueryEquality makes the same-state check include query
	// parameters. When false, states differing only in query
	// parameters are considered equal.
	strictQueryEquality bool
}

func defaultConfig() config {
	return config{
		trailingSlash:       pathtmpl.TrailingSlashDefault,
		caseSensitive:       false,
		queryParamsMode:     pathtmpl.QueryParamsDefault,
		encoding:            pathtmpl.EncodingDefault,
		autoCleanUp:         true,
		strictQueryEquality: true,
	}
}

func (c config) treeOptions() []routetree.Option {
	opts := []routetree.Option{
		routetree.WithTrailingSlash(c.trailingSlash),
		routetree.WithQueryParamsMode(c.queryParamsMode),
		routetree.WithEncoding(c.encoding),
	}
	if c.caseSensitive {
		opts = append(opts, routetree.WithCaseSensitive())
	}
	return opts
}

// Option configures a Router at construction time.
type Option func(*config)

// WithTrailingSlash sets how trailing slashes are treated during matching
// and building.
func WithTrailingSlash(mode pathtmpl.TrailingSlashMode) Option {
	return func(c *config) { c.trailingSlash = mode }
}

// WithCaseSensitive makes path matching case sensitive.
func WithCaseSensitive(sensitive bool) Option {
	return func(c *config) { c.caseSensitive = sensitive }
}

// WithQueryParamsMode sets how undeclared query parameters are treated.
func WithQueryParamsMode(mode pathtmpl.QueryParamsMode) Option {
	return func(c *config) { c.queryParamsMode = mode }
}

// WithEncoding selects the parameter encoding profile.
func WithEncoding(enc pathtmpl.Encoding) Option {
	return func(c *config) { c.encoding = enc }
}

// WithDefaultRoute names the route the router falls back to when Start
// receives an unmatchable path, and the target of NavigateToDefault.
func WithDefaultRoute(name string, params Params) Option {
	return func(c *config) {
		c.defaultRoute = name
		c.defaultParams = params
	}
}

// WithAllowNotFound makes Start commit a synthetic UnknownRouteName state
// for unmatchable paths instead of failing.
func WithAllowNotFound(allow bool) Option {
	return func(c *config) { c.allowNotFound = allow }
}

// WithoutAutoCleanUp keeps deactivation guards registered after their
// segment deactivates. By default they are cleared.
func WithoutAutoCleanUp() Option {
	return func(c *config) { c.autoCleanUp = false }
}

// WithLooseStateEquality excludes query parameters from the same-state
// check, so navigating to the current route with different query values
// still reports SAME_STATES.
func WithLooseStateEquality() Option {
	return func(c *config) { c.strictQueryEquality = false }
}
