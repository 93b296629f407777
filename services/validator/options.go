package validator

// TxValidatorOptions holds optional collaborators of a TxValidator.
type TxValidatorOptions struct {
	outputLookup OutputLookup
}

// TxValidatorOption is a function that sets some option on the TxValidatorOptions struct
type TxValidatorOption func(*TxValidatorOptions)

func NewTxValidatorOptions(opts ...TxValidatorOption) *TxValidatorOptions {
	options := &TxValidatorOptions{
		outputLookup: SelfLookup{},
	}

	for _, o := range opts {
		o(options)
	}

	return options
}

// WithOutputLookup replaces the default self lookup.
func WithOutputLookup(lookup OutputLookup) TxValidatorOption {
	return func(o *TxValidatorOptions) {
		if lookup != nil {
			o.outputLookup = lookup
		}
	}
}
