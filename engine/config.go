package engine

import (
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/njchilds90/symengine/cas"
)

// Config is the immutable engine configuration. Build it with NewConfig.
type Config struct {
	logger          *slog.Logger
	lib             *cas.Lib
	aliases         map[string]string
	allowlist       []string
	implicitSymbols bool
}

// Option configures a Config.
type Option func(*Config)

// NewConfig returns the default configuration with opts applied.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		aliases:         DefaultAliases(),
		allowlist:       DefaultAllowlist(),
		implicitSymbols: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.lib == nil {
		cfg.lib = cas.Library()
	}
	return cfg
}

// WithLogger sets the structured logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.logger = l }
}

// WithLibrary sets the library namespace operations are resolved against.
func WithLibrary(lib *cas.Lib) Option {
	return func(c *Config) { c.lib = lib }
}

// WithAliases replaces the alias table.
func WithAliases(aliases map[string]string) Option {
	return func(c *Config) { c.aliases = maps.Clone(aliases) }
}

// WithAllowlist replaces the base vocabulary names available inside
// expressions. Names the library does not define are ignored.
func WithAllowlist(names []string) Option {
	return func(c *Config) { c.allowlist = slices.Clone(names) }
}

// WithImplicitSymbols controls whether unknown identifiers in the expression
// text that are not used as calls are declared as symbols. With false, only
// names from the request fields are declared and anything else is a parse
// error.
func WithImplicitSymbols(on bool) Option {
	return func(c *Config) { c.implicitSymbols = on }
}

// DefaultAliases returns a copy of the static alias table.
func DefaultAliases() map[string]string {
	return map[string]string{
		"differentiate": "diff",
		"derivative":    "diff",
		"d":             "diff",
		"laplace":       "laplace_transform",
		"invlaplace":    "inverse_laplace_transform",
		"fourier":       "fourier_transform",
		"invfourier":    "inverse_fourier_transform",
		"z":             "ztransform",
		"invz":          "inverse_ztransform",
	}
}

// DefaultAllowlist returns the trusted names expressions may reference.
func DefaultAllowlist() []string {
	return []string{
		"Symbol", "symbols", "Eq",
		"sin", "cos", "tan", "asin", "acos", "atan", "sinh", "cosh", "tanh",
		"exp", "log", "ln", "sqrt", "Abs",
		"pi", "E", "I", "oo",
		"Matrix", "Integral", "Derivative",
		"diff", "integrate", "simplify", "expand", "factor", "collect",
		"cancel", "apart", "together", "trigsimp", "ratsimp", "transpose",
	}
}
