// Package file is a blob store backed by a directory. Every blob is written
// to a temporary file and renamed into place, next to a sha256sum style
// checksum file.
package file

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/stores/blob/options"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

const checksumExtension = ".sha256"

type File struct {
	path    string
	logger  ulogger.Logger
	options *options.Options
}

// New opens a store rooted at the path of storeURL, creating it if needed.
// A host of "." makes the path relative: file://./output.
func New(logger ulogger.Logger, storeURL *url.URL, opts ...options.StoreOption) (*File, error) {
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
		return nil, errors.NewConfigurationError("[File] no path in store url %s", storeURL.String())
	}

	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, errors.NewStorageError("[File] failed to create directory", err)
	}

	return &File{
		path:    path,
		logger:  logger.New("file"),
		options: options.NewStoreOptions(opts...),
	}, nil
}

func (s *File) Health(_ context.Context, _ bool) (int, string, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return http.StatusInternalServerError, "File Store: Path does not exist", err
	}

	tempFile, err := os.CreateTemp(s.path, "health-check-*.tmp")
	if err != nil {
		return http.StatusInternalServerError, "File Store: Unable to create temporary file", err
	}

	tempFileName := tempFile.Name()
	_ = tempFile.Close()

	if err = os.Remove(tempFileName); err != nil {
		return http.StatusInternalServerError, "File Store: Unable to delete file", err
	}

	return http.StatusOK, "File Store: Healthy", nil
}

func (s *File) Close(_ context.Context) error {
	return nil
}

func (s *File) filename(key []byte, opts []options.FileOption) (string, *options.Options, error) {
	merged := options.MergeOptions(s.options, opts)

	name, err := merged.StoreKey(key)
	if err != nil {
		return "", nil, err
	}

	return filepath.Join(s.path, name), merged, nil
}

func (s *File) Exists(_ context.Context, key []byte, opts ...options.FileOption) (bool, error) {
	filename, _, err := s.filename(key, opts)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(filename)
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, errors.NewStorageError("[File][Exists] [%s] failed to stat file", filename, err)
}

func (s *File) Get(_ context.Context, key []byte, opts ...options.FileOption) ([]byte, error) {
	filename, _, err := s.filename(key, opts)
	if err != nil {
		return nil, err
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewBlobNotFoundError("[File][Get] [%s] not found", filename)
		}

		return nil, errors.NewStorageError("[File][Get] [%s] failed to read file", filename, err)
	}

	return b, nil
}

func (s *File) Set(_ context.Context, key []byte, value []byte, opts ...options.FileOption) error {
	filename, merged, err := s.filename(key, opts)
	if err != nil {
		return err
	}

	if !merged.AllowOverwrite {
		if _, err = os.Stat(filename); err == nil {
			return errors.NewBlobAlreadyExistsError("[File][Set] [%s] already exists in store", filename)
		}
	}

	tmpFile, err := os.CreateTemp(s.path, filepath.Base(filename)+".*.tmp")
	if err != nil {
		return errors.NewStorageError("[File][Set] [%s] failed to create file", filename, err)
	}

	tmpFilename := tmpFile.Name()

	if _, err = tmpFile.Write(value); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFilename)

		return errors.NewStorageError("[File][Set] [%s] failed to write data to file", filename, err)
	}

	if err = tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFilename)

		return errors.NewStorageError("[File][Set] [%s] failed to close file", filename, err)
	}

	if err = s.publish(tmpFilename, filename, merged.AllowOverwrite); err != nil {
		return err
	}

	if err = s.writeHashFile(filename, value); err != nil {
		return err
	}

	s.logger.Debugf("[File][Set] wrote %d bytes to %s", len(value), filename)

	return nil
}

// publish moves the finished temp file into place. Without overwrite it links
// instead of renaming, so a file that appeared since the existence check is
// never replaced.
func (s *File) publish(tmpFilename, filename string, allowOverwrite bool) error {
	defer func() {
		_ = os.Remove(tmpFilename)
	}()

	if allowOverwrite {
		if err := os.Rename(tmpFilename, filename); err != nil {
			return errors.NewStorageError("[File][Set] [%s] failed to rename file from tmp", filename, err)
		}

		return nil
	}

	if err := os.Link(tmpFilename, filename); err != nil {
		if os.IsExist(err) {
			return errors.NewBlobAlreadyExistsError("[File][Set] [%s] already exists in store", filename)
		}

		return errors.NewStorageError("[File][Set] [%s] failed to link file from tmp", filename, err)
	}

	return nil
}

// writeHashFile writes "<sha256>  <name>\n" so the blob can be checked with sha256sum -c.
func (s *File) writeHashFile(filename string, value []byte) error {
	hashStr := fmt.Sprintf("%x  %s\n", sha256.Sum256(value), filepath.Base(filename))

	hashFilename := filename + checksumExtension
	tmpHashFilename := hashFilename + ".tmp"

	//nolint:gosec // G306: checksum files are meant to be world readable
	if err := os.WriteFile(tmpHashFilename, []byte(hashStr), 0644); err != nil {
		return errors.NewStorageError("[File] failed to write hash file", err)
	}

	if err := os.Rename(tmpHashFilename, hashFilename); err != nil {
		return errors.NewStorageError("[File] failed to rename hash file", err)
	}

	return nil
}

// Verify checks the blob under key against its checksum file.
func (s *File) Verify(ctx context.Context, key []byte, opts ...options.FileOption) error {
	value, err := s.Get(ctx, key, opts...)
	if err != nil {
		return err
	}

	filename, _, err := s.filename(key, opts)
	if err != nil {
		return err
	}

	expected, err := os.ReadFile(filename + checksumExtension)
	if err != nil {
		return errors.NewStorageError("[File][Verify] [%s] failed to read hash file", filename, err)
	}

	actual := fmt.Sprintf("%x  %s\n", sha256.Sum256(value), filepath.Base(filename))
	if !bytes.Equal(expected, []byte(actual)) {
		return errors.NewStorageError("[File][Verify] [%s] checksum mismatch", filename)
	}

	return nil
}

func (s *File) Del(_ context.Context, key []byte, opts ...options.FileOption) error {
	filename, _, err := s.filename(key, opts)
	if err != nil {
		return err
	}

	if err = os.Remove(filename); err != nil {
		if os.IsNotExist(err) {
			return errors.NewBlobNotFoundError("[File][Del] [%s] not found", filename)
		}

		return errors.NewStorageError("[File][Del] [%s] failed to remove file", filename, err)
	}

	_ = os.Remove(filename + checksumExtension)

	return nil
}
