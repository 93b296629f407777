package blob

import (
	"net/url"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/stores/blob/bolt"
	"github.com/bsv-blockchain/mineblock/stores/blob/file"
	"github.com/bsv-blockchain/mineblock/stores/blob/memory"
	"github.com/bsv-blockchain/mineblock/stores/blob/options"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

// NewStore creates the backend selected by the scheme of storeURL. The
// extension query parameter sets the default file extension of every key.
func NewStore(logger ulogger.Logger, storeURL *url.URL, opts ...options.StoreOption) (store Store, err error) {
	if storeURL == nil {
		return nil, errors.NewConfigurationError("blob store url is nil")
	}

	if ext := storeURL.Query().Get("extension"); ext != "" {
		opts = append(opts, options.WithDefaultExtension(ext))
	}

	switch storeURL.Scheme {
	case "memory":
		store = memory.New(opts...)

	case "file":
		store, err = file.New(logger, storeURL, opts...)
		if err != nil {
			return nil, errors.NewStorageError("error creating file blob store", err)
		}

	case "bolt":
		store, err = bolt.New(logger, storeURL, opts...)
		if err != nil {
			return nil, errors.NewStorageError("error creating bolt blob store", err)
		}

	default:
		return nil, errors.NewConfigurationError("unknown blob store type: %s", storeURL.Scheme)
	}

	return store, nil
}
