// Package file stores sync cache entries as one JSON document per owner.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/you-humble/stockledger/internal/reconciler"
)

type cache struct {
	dir string
}

func New(dir string) (*cache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &cache{dir: dir}, nil
}

func (c *cache) Load(_ context.Context, ownerID int64) (*reconciler.Entry, error) {
	raw, err := os.ReadFile(c.path(ownerID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, reconciler.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}

	var e reconciler.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}
	return &e, nil
}

// Save replaces the owner's document through a rename so a crash never
// leaves a half-written file behind.
func (c *cache) Save(_ context.Context, ownerID int64, e reconciler.Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, "snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path(ownerID)); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	return nil
}

func (c *cache) path(ownerID int64) string {
	return filepath.Join(c.dir, "owner-"+strconv.FormatInt(ownerID, 10)+".json")
}
