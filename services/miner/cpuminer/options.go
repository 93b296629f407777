package cpuminer

// Options tune a nonce search.
type Options struct {
	logInterval uint64
}

// Option is a function that sets some option on the Options struct
type Option func(*Options)

func NewOptions(opts ...Option) *Options {
	options := &Options{}

	for _, o := range opts {
		o(options)
	}

	return options
}

// WithLogInterval logs progress every n attempts. Zero disables progress logging.
func WithLogInterval(n uint64) Option {
	return func(o *Options) {
		o.logInterval = n
	}
}
