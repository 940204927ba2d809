package statestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fd1az/seller-scout/business/screening/app"
)

var _ app.StateStore = (*FileStore)(nil)

// FileStore keeps one document per key in a directory, so state outlives the
// process. Expired documents are removed when read.
type FileStore struct {
	dir string
	now func() time.Time
}

// fileEntry is the on-disk envelope. A zero ExpiresAt never expires.
type fileEntry struct {
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
	Data      []byte    `json:"data"`
}

// DefaultFileDir returns the per-user session directory.
func DefaultFileDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "seller-scout", "sessions"), nil
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file state store: directory required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("file state store: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory documents are written to.
func (s *FileStore) Dir() string {
	return s.dir
}

// path hashes key so session ids never reach the filesystem as names.
func (s *FileStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+".json")
}

func (s *FileStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path := s.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		// not an envelope; the caller decodes it and treats it as corrupt state
		return raw, true, nil
	}
	if !entry.ExpiresAt.IsZero() && s.now().After(entry.ExpiresAt) {
		os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Save writes through a temporary file and rename; ttl of zero never expires.
func (s *FileStore) Save(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = s.now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".state-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Ping checks the directory is still there.
func (s *FileStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
