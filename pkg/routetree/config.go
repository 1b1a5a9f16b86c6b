package routetree

import "github.com/wayfare-dev/wayfare/pkg/pathtmpl"

// treeConfig governs template compilation and matching for a whole tree.
type treeConfig struct {
	trailingSlash pathtmpl.TrailingSlashMode
	caseSensitive bool
	queryParams   pathtmpl.QueryParamsMode
	encoding      pathtmpl.Encoding
}

// Option configures a route tree at construction.
type Option func(*treeConfig)

// WithTrailingSlash sets the trailing slash mode for matching and building.
func WithTrailingSlash(mode pathtmpl.TrailingSlashMode) Option {
	return func(c *treeConfig) { c.trailingSlash = mode }
}

// WithCaseSensitive makes path matching case sensitive.
func WithCaseSensitive() Option {
	return func(c *treeConfig) { c.caseSensitive = true }
}

// WithQueryParamsMode sets how undeclared query parameters are treated.
func WithQueryParamsMode(mode pathtmpl.QueryParamsMode) Option {
	return func(c *treeConfig) { c.queryParams = mode }
}

// WithEncoding sets the parameter encoding mode.
func WithEncoding(enc pathtmpl.Encoding) Option {
	return func(c *treeConfig) { c.encoding = enc }
}

// tplOptions derives the template compile options from the tree config.
func (c *treeConfig) tplOptions() []pathtmpl.Option {
	opts := []pathtmpl.Option{
		pathtmpl.WithTrailingSlash(c.trailingSlash),
		pathtmpl.WithQueryParamsMode(c.queryParams),
		pathtmpl.WithEncoding(c.encoding),
	}
	if c.caseSensitive {
		opts = append(opts, pathtmpl.WithCaseSensitive())
	}
	return opts
}
