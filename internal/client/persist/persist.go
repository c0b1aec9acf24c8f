// Package persist is the best-effort key/value store the session and
// notification stores write through. Failures of the backing medium never
// reach the caller: they are logged and absorbed, and the caller's in-memory
// state stays authoritative.
package persist

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/librarydesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/librarydesk/internal/common"
	"github.com/dmitrijs2005/librarydesk/internal/logging"
)

// Store is the persistent key/value contract. Get reports false when the key
// is absent or cannot be read.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Remove(ctx context.Context, key string)
}

// KV is a Store over a metadata.Repository.
type KV struct {
	repo metadata.Repository
	log  logging.Logger
}

func NewKV(repo metadata.Repository, log logging.Logger) *KV {
	return &KV{repo: repo, log: log.With("component", "persist")}
}

func (s *KV) Get(ctx context.Context, key string) (string, bool) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		s.warn(ctx, "read", key, err)
		return "", false
	}
	if v == nil {
		return "", false
	}
	return string(v), true
}

func (s *KV) Set(ctx context.Context, key, value string) {
	if err := s.repo.Set(ctx, key, []byte(value)); err != nil {
		s.warn(ctx, "write", key, err)
	}
}

func (s *KV) Remove(ctx context.Context, key string) {
	if err := s.repo.Delete(ctx, key); err != nil {
		s.warn(ctx, "remove", key, err)
	}
}

func (s *KV) warn(ctx context.Context, op, key string, err error) {
	err = fmt.Errorf("%w: %s %q: %w", common.ErrPersistenceUnavailable, op, key, err)
	s.log.Warn(ctx, "persistence failed, keeping in-memory state", "op", op, "key", key, "err", err)
}
