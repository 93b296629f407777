// Package bolt is a blob store keeping every blob in one bucket of a bbolt
// database file.
package bolt

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/stores/blob/options"
	"github.com/bsv-blockchain/mineblock/ulogger"
	bolt "go.etcd.io/bbolt"
)

const defaultBucket = "blocks"

type Bolt struct {
	db      *bolt.DB
	bucket  []byte
	logger  ulogger.Logger
	options *options.Options
}

// New opens the database file named by storeURL, for example
// bolt://./data/blocks.db?bucket=blocks.
func New(logger ulogger.Logger, storeURL *url.URL, opts ...options.StoreOption) (*Bolt, error) {
	if storeURL == nil {
		return nil, errors.NewConfigurationError("storeURL is nil")
	}

	var path string
	if storeURL.Host == "." {
		path = strings.TrimPrefix(storeURL.Path, "/") // relative path
	} else {
		path = storeURL.Path
	}

	if path == "" {
		return nil, errors.NewConfigurationError("[Bolt] no path in store url %s", storeURL.String())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.NewStorageError("[Bolt] failed to create directory", err)
	}

	bucket := storeURL.Query().Get("bucket")
	if bucket == "" {
		bucket = defaultBucket
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.NewStorageError("[Bolt] failed to open %s", path, err)
	}

	if err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, errors.NewStorageError("[Bolt] failed to create bucket %s", bucket, err)
	}

	return &Bolt{
		db:      db,
		bucket:  []byte(bucket),
		logger:  logger.New("bolt"),
		options: options.NewStoreOptions(opts...),
	}, nil
}

func (s *Bolt) Health(_ context.Context, _ bool) (int, string, error) {
	err := s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(s.bucket) == nil {
			return bolt.ErrBucketNotFound
		}

		return nil
	})
	if err != nil {
		return http.StatusInternalServerError, "Bolt Store: bucket unavailable", err
	}

	return http.StatusOK, "Bolt Store: Healthy", nil
}

func (s *Bolt) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return errors.NewStorageError("[Bolt] failed to close database", err)
	}

	return nil
}

func (s *Bolt) storeKey(key []byte, opts []options.FileOption) ([]byte, *options.Options, error) {
	merged := options.MergeOptions(s.options, opts)

	name, err := merged.StoreKey(key)
	if err != nil {
		return nil, nil, err
	}

	return []byte(name), merged, nil
}

func (s *Bolt) Exists(_ context.Context, key []byte, opts ...options.FileOption) (bool, error) {
	storeKey, _, err := s.storeKey(key, opts)
	if err != nil {
		return false, err
	}

	var exists bool

	err = s.db.View(func(tx *bolt.Tx) error {
		exists = tx.Bucket(s.bucket).Get(storeKey) != nil
		return nil
	})
	if err != nil {
		return false, errors.NewStorageError("[Bolt][Exists] [%s] failed", storeKey, err)
	}

	return exists, nil
}

func (s *Bolt) Get(_ context.Context, key []byte, opts ...options.FileOption) ([]byte, error) {
	storeKey, _, err := s.storeKey(key, opts)
	if err != nil {
		return nil, err
	}

	var value []byte

	err = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(s.bucket).Get(storeKey); v != nil {
			// v is only valid for the life of the transaction
			value = append([]byte{}, v...)
		}

		return nil
	})
	if err != nil {
		return nil, errors.NewStorageError("[Bolt][Get] [%s] failed", storeKey, err)
	}

	if value == nil {
		return nil, errors.NewBlobNotFoundError("[Bolt][Get] [%s] not found", storeKey)
	}

	return value, nil
}

func (s *Bolt) Set(_ context.Context, key []byte, value []byte, opts ...options.FileOption) error {
	storeKey, merged, err := s.storeKey(key, opts)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)

		if !merged.AllowOverwrite && b.Get(storeKey) != nil {
			return errors.NewBlobAlreadyExistsError("[Bolt][Set] [%s] already exists in store", storeKey)
		}

		return b.Put(storeKey, value)
	})
	if err != nil {
		if errors.Is(err, errors.ErrBlobExists) {
			return err
		}

		return errors.NewStorageError("[Bolt][Set] [%s] failed", storeKey, err)
	}

	s.logger.Debugf("[Bolt][Set] wrote %d bytes to %s", len(value), storeKey)

	return nil
}

func (s *Bolt) Del(_ context.Context, key []byte, opts ...options.FileOption) error {
	storeKey, _, err := s.storeKey(key, opts)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)

		if b.Get(storeKey) == nil {
			return errors.NewBlobNotFoundError("[Bolt][Del] [%s] not found", storeKey)
		}

		return b.Delete(storeKey)
	})
	if err != nil {
		if errors.Is(err, errors.ErrBlobNotFound) {
			return err
		}

		return errors.NewStorageError("[Bolt][Del] [%s] failed", storeKey, err)
	}

	return nil
}
