// Package file reads pending transactions from a directory, one transaction
// per file, either raw or hex encoded.
package file

import (
	"bytes"
	"context"
	"encoding/hex"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

type File struct {
	path   string
	logger ulogger.Logger
}

func New(logger ulogger.Logger, sourceURL *url.URL) (*File, error) {
	var path string
	if sourceURL.Host == "." {
		path = strings.TrimPrefix(sourceURL.Path, "/") // relative path
	} else {
		path = sourceURL.Path
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewStorageError("[File] mempool directory %q unavailable", path, err)
	}

	if !info.IsDir() {
		return nil, errors.NewConfigurationError("[File] mempool path %q is not a directory", path)
	}

	return &File{
		path:   path,
		logger: logger.New("mempool"),
	}, nil
}

// ForEach visits the regular, non hidden files of the directory sorted by name.
func (f *File) ForEach(ctx context.Context, fn func(entry *model.MempoolEntry) error) error {
	dirEntries, err := os.ReadDir(f.path)
	if err != nil {
		return errors.NewStorageError("[File] failed to read mempool directory %q", f.path, err)
	}

	names := make([]string, 0, len(dirEntries))

	for _, dirEntry := range dirEntries {
		if !dirEntry.Type().IsRegular() || strings.HasPrefix(dirEntry.Name(), ".") {
			continue
		}

		names = append(names, dirEntry.Name())
	}

	slices.Sort(names)

	f.logger.Infof("[File] reading %d transactions from %s", len(names), f.path)

	for _, name := range names {
		if err = ctx.Err(); err != nil {
			return errors.NewContextCanceledError("[File] reading mempool canceled", err)
		}

		b, err := os.ReadFile(filepath.Join(f.path, name))
		if err != nil {
			return errors.NewStorageError("[File] failed to read %s", name, err)
		}

		if err = fn(&model.MempoolEntry{Name: name, Raw: DecodeTxFile(b)}); err != nil {
			return err
		}
	}

	return nil
}

func (f *File) Health(_ context.Context, _ bool) (int, string, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return http.StatusServiceUnavailable, "mempool directory unavailable", errors.NewStorageError("[File] mempool directory %q unavailable", f.path, err)
	}

	if !info.IsDir() {
		return http.StatusServiceUnavailable, "mempool path is not a directory", nil
	}

	return http.StatusOK, "File Mempool: OK", nil
}

func (f *File) Close(_ context.Context) error {
	return nil
}

// DecodeTxFile returns the transaction bytes held by a mempool file. Content
// that is entirely hex, ignoring surrounding whitespace, is decoded; anything
// else is taken as raw bytes. A raw transaction never qualifies as hex
// because its version field contains bytes outside the hex alphabet.
func DecodeTxFile(b []byte) []byte {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || len(trimmed)%2 != 0 {
		return b
	}

	decoded, err := hex.DecodeString(string(trimmed))
	if err != nil {
		return b
	}

	return decoded
}
