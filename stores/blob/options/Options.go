package options

import (
	"strings"

	"github.com/bsv-blockchain/mineblock/errors"
)

// Options holds the per store defaults and per call overrides of a blob operation.
type Options struct {
	Extension      string
	AllowOverwrite bool
}

// StoreOption sets a default on a store.
type StoreOption func(*Options)

// FileOption overrides a default for a single call.
type FileOption func(*Options)

func NewStoreOptions(opts ...StoreOption) *Options {
	options := &Options{}

	for _, opt := range opts {
		opt(options)
	}

	return options
}

// MergeOptions applies the call options on top of a copy of the store defaults.
func MergeOptions(storeOpts *Options, fileOpts []FileOption) *Options {
	merged := &Options{}
	if storeOpts != nil {
		*merged = *storeOpts
	}

	for _, opt := range fileOpts {
		opt(merged)
	}

	return merged
}

// WithDefaultExtension sets the extension appended to every key of a store.
func WithDefaultExtension(extension string) StoreOption {
	return func(o *Options) {
		o.Extension = strings.TrimPrefix(extension, ".")
	}
}

func WithDefaultAllowOverwrite(allow bool) StoreOption {
	return func(o *Options) {
		o.AllowOverwrite = allow
	}
}

func WithFileExtension(extension string) FileOption {
	return func(o *Options) {
		o.Extension = strings.TrimPrefix(extension, ".")
	}
}

func WithAllowOverwrite(allow bool) FileOption {
	return func(o *Options) {
		o.AllowOverwrite = allow
	}
}

// StoreKey returns the name a blob is stored under. Keys must be non-empty
// and must not contain path separators.
func (o *Options) StoreKey(key []byte) (string, error) {
	if len(key) == 0 {
		return "", errors.NewInvalidArgumentError("blob key is empty")
	}

	name := string(key)
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.NewInvalidArgumentError("invalid blob key %q", name)
	}

	if o.Extension != "" {
		name += "." + o.Extension
	}

	return name, nil
}
