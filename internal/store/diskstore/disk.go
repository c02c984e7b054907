// Package diskstore implements the on-disk cache store.
//
// Layout: {root}/{space}/{name}.json[.{ext}], one file per entry. The root
// and space directories are created on the first write.
package diskstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/discochess/insight/internal/codec"
	"github.com/discochess/insight/internal/store"
)

const (
	payloadSuffix = ".json"
	lockSuffix    = ".lock"
	tempSuffix    = ".part"

	lockRetryDelay = 10 * time.Millisecond
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a disk-based cache store.
type Store struct {
	root  string
	codec codec.Codec
}

// Entry describes one cached payload on disk.
type Entry struct {
	Key  store.Key
	Path string
	Size int64
}

// New creates a disk store rooted at root. The directory does not need to
// exist yet, but if root exists it must be a directory.
// The codec handles compression of stored payloads.
func New(root string, c codec.Codec) (*Store, error) {
	if root == "" {
		return nil, errors.New("diskstore: empty root directory")
	}
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &Store{
		root:  root,
		codec: c,
	}, nil
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// Get reads and decodes the entry for key.
func (s *Store) Get(ctx context.Context, key store.Key) ([]byte, error) {
	// Check for cancellation before starting I/O.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, &store.IOError{Op: "read", Path: path, Err: err}
	}

	data, err := s.codec.Decode(raw)
	if err != nil {
		return nil, &store.IOError{Op: "decode", Path: path, Err: err}
	}
	return data, nil
}

// Put encodes payload and writes it under key. The write goes to a temp file
// that is renamed into place, so readers never observe a partial entry.
// Concurrent writers to the same key are serialized by a lock file; the last
// writer wins.
func (s *Store) Put(ctx context.Context, key store.Key, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := s.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &store.IOError{Op: "mkdir", Path: dir, Err: err}
	}

	encoded, err := s.codec.Encode(payload)
	if err != nil {
		return &store.IOError{Op: "encode", Path: path, Err: err}
	}

	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return &store.IOError{Op: "lock", Path: lock.Path(), Err: err}
	}
	if !locked {
		return &store.IOError{Op: "lock", Path: lock.Path(), Err: errors.New("lock not acquired")}
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*"+tempSuffix)
	if err != nil {
		return &store.IOError{Op: "write", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // No-op after a successful rename.

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return &store.IOError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &store.IOError{Op: "write", Path: tmpPath, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &store.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Entries lists the payloads stored in every key space, skipping lock and
// temp files. A missing root yields no entries.
func (s *Store) Entries() ([]Entry, error) {
	var entries []Entry
	suffix := s.suffix()

	for _, space := range store.Spaces() {
		dir := filepath.Join(s.root, string(space))
		files, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, &store.IOError{Op: "read", Path: dir, Err: err}
		}

		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), suffix) {
				continue
			}
			info, err := f.Info()
			if err != nil {
				continue
			}
			entries = append(entries, Entry{
				Key:  store.Key{Space: space, Name: strings.TrimSuffix(f.Name(), suffix)},
				Path: filepath.Join(dir, f.Name()),
				Size: info.Size(),
			})
		}
	}
	return entries, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// path returns the filesystem path for a key.
func (s *Store) path(key store.Key) string {
	return filepath.Join(s.root, string(key.Space), store.SanitizeName(key.Name)+s.suffix())
}

// suffix returns the file suffix for entries, including the codec extension.
func (s *Store) suffix() string {
	if ext := s.codec.Extension(); ext != "" {
		return payloadSuffix + "." + ext
	}
	return payloadSuffix
}
