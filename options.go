package hl7

import "github.com/jacoelho/hl7/reference"

// Option configures parser construction.
type Option interface{ apply(*options) }

type options struct {
	provider reference.Provider
	version  string
	encoding *EncodingChars
	level    Level
	noGroups bool
}

type optionFunc func(*options)

func (f optionFunc) apply(cfg *options) {
	if cfg == nil {
		return
	}
	f(cfg)
}

// WithStructures sets the reference provider names are resolved against.
func WithStructures(p reference.Provider) Option {
	return optionFunc(func(cfg *options) {
		cfg.provider = p
	})
}

// WithVersion sets the version assumed when the control segment omits one.
func WithVersion(version string) Option {
	return optionFunc(func(cfg *options) {
		cfg.version = version
	})
}

// WithEncodingChars sets the separator set used by the per-level parse
// methods. ParseMessage always uses the separators the message declares.
func WithEncodingChars(ec EncodingChars) Option {
	return optionFunc(func(cfg *options) {
		cfg.encoding = &ec
	})
}

// WithValidation sets the validation level.
func WithValidation(level Level) Option {
	return optionFunc(func(cfg *options) {
		cfg.level = level
	})
}

// WithoutGroups disables structure assignment: decoded segments attach
// flat to the message in input order.
func WithoutGroups() Option {
	return optionFunc(func(cfg *options) {
		cfg.noGroups = true
	})
}

func applyOptions(opts []Option) options {
	var cfg options
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}
