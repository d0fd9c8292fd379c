package docxml

import "log/slog"

// Option configures emitters and generation.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	strict        bool
	resolver      Resolver
	workers       int
	caseSensitive bool
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithLogger sets the logger that receives contract violation reports.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithStrict makes contract violations panic instead of degrading to no-ops.
func WithStrict(enabled bool) Option {
	return func(cfg *config) {
		cfg.strict = enabled
	}
}

// WithResolver sets the resolver used to link identifiers in type strings
// and code listings.
func WithResolver(r Resolver) Option {
	return func(cfg *config) {
		cfg.resolver = r
	}
}

// WithWorkers bounds the number of compounds rendered concurrently.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

// WithCaseSensitiveNames keeps page ids in their original case.
func WithCaseSensitiveNames(enabled bool) Option {
	return func(cfg *config) {
		cfg.caseSensitive = enabled
	}
}
