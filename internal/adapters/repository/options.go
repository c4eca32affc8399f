// Package repository keeps the tasting history and the settings in memory
// and persists them through a key/value store.
package repository

import "github.com/okian/tasting/pkg/logger"

// Default store keys.
const (
	DefaultHistoryKey  = "history"
	DefaultSettingsKey = "settings"
)

type options struct {
	key string
	log logger.Logger
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithKey sets the key the store persists under.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithLogger sets the logger used to report persistence failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(defaultKey string, opts []Option) options {
	o := options{key: defaultKey}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
