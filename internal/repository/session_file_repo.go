package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gaitserver/internal/domain"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when the advisory write lock could not be
// acquired within the bounded retry window.
var ErrLockTimeout = errors.New("session store lock not acquired in time")

const (
	lockTimeout   = 5 * time.Second
	lockRetry     = 25 * time.Millisecond
	filePerm      = 0o644
	sortEpochTime = int64(0)
)

// FileSessionRepository keeps the whole collection in one JSON document keyed
// by session id. Every mutation re-reads the document from disk, applies the
// change in memory and writes the whole document back, serialized by an
// advisory lock acquired with bounded retry: an in-process slot first (the
// flock handle reports itself as held for every goroutine of this process),
// then the OS file lock for other processes sharing the document.
//
// Known limitation: two concurrent writes to the same id race and the last
// write-back wins; there is no version field to detect the lost update.
type FileSessionRepository struct {
	path string
	slot chan struct{}
	flk  *flock.Flock
}

func NewFileSessionRepository(path string) (*FileSessionRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session store dir: %w", err)
	}
	return &FileSessionRepository{
		path: path,
		slot: make(chan struct{}, 1),
		flk:  flock.New(path + ".lock"),
	}, nil
}

func (r *FileSessionRepository) mutate(ctx context.Context, fn func(doc map[string]domain.Session) error) error {
	ctx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	select {
	case r.slot <- struct{}{}:
	case <-ctx.Done():
		return ErrLockTimeout
	}
	defer func() { <-r.slot }()

	locked, err := r.flk.TryLockContext(ctx, lockRetry)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return fmt.Errorf("acquire session store lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer r.flk.Unlock()

	doc, err := r.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return r.store(doc)
}

func (r *FileSessionRepository) load() (map[string]domain.Session, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]domain.Session{}, nil
		}
		return nil, fmt.Errorf("read session store: %w", err)
	}
	doc := map[string]domain.Session{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session store: %w", err)
	}
	return doc, nil
}

// store writes the full document to a sibling temp file and renames it over
// the old one, so readers never observe a half-written document.
func (r *FileSessionRepository) store(doc map[string]domain.Session) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session store: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return fmt.Errorf("write session store: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace session store: %w", err)
	}
	return nil
}

func (r *FileSessionRepository) Upsert(ctx context.Context, s *domain.Session) error {
	return r.mutate(ctx, func(doc map[string]domain.Session) error {
		doc[s.ID] = *s
		return nil
	})
}

func (r *FileSessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	s, ok := doc[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// ListAll returns every session ordered by startTime descending. A value that
// does not parse sorts as if it were the epoch; listing never fails on bad
// client timestamps.
func (r *FileSessionRepository) ListAll(ctx context.Context) ([]domain.Session, error) {
	doc, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Session, 0, len(doc))
	for _, s := range doc {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return startTimeUnix(out[i].StartTime) > startTimeUnix(out[j].StartTime)
	})
	return out, nil
}

func startTimeUnix(v string) int64 {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return sortEpochTime
	}
	return t.UnixMilli()
}

func (r *FileSessionRepository) DeleteByID(ctx context.Context, id string) (*domain.Session, error) {
	var deleted *domain.Session
	err := r.mutate(ctx, func(doc map[string]domain.Session) error {
		s, ok := doc[id]
		if !ok {
			return ErrSessionNotFound
		}
		delete(doc, id)
		deleted = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *FileSessionRepository) Count(ctx context.Context) (int64, error) {
	doc, err := r.load()
	if err != nil {
		return 0, err
	}
	return int64(len(doc)), nil
}
