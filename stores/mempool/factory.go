package mempool

import (
	"net/url"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/stores/mempool/file"
	"github.com/bsv-blockchain/mineblock/stores/mempool/memory"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

// NewSource creates the source selected by the scheme of sourceURL:
// file://./mempool reads a directory, memory:// starts empty.
func NewSource(logger ulogger.Logger, sourceURL *url.URL) (Source, error) {
	if sourceURL == nil {
		return nil, errors.NewConfigurationError("mempool source url is nil")
	}

	switch sourceURL.Scheme {
	case "file":
		source, err := file.New(logger, sourceURL)
		if err != nil {
			return nil, errors.NewStorageError("error creating file mempool source", err)
		}

		return source, nil

	case "memory":
		return memory.New(), nil

	default:
		return nil, errors.NewConfigurationError("unknown mempool source type: %s", sourceURL.Scheme)
	}
}
