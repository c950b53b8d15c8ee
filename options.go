package libemit

type (
	options struct {
		logger logger
		owner  any
	}

	// Option configures an Emitter.
	Option func(*options)
)

// WithLogger makes the emitter report structural changes to l at debug level.
func WithLogger(l logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithOwner sets the receiver context exposed to callbacks as Event.Owner.
// Hosts embedding an emitter usually pass themselves.
func WithOwner(owner any) Option {
	return func(o *options) {
		o.owner = owner
	}
}

func newOptions(opts []Option) options {
	o := options{logger: noopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
