package session

import (
	"context"
	"io"

	"gaitserver/internal/domain"
)

// RecordStore is the durable table of session metadata, one record per id.
// Implementations must make each call atomic with respect to concurrent
// callers; satisfied by repository.SessionRepository and
// repository.FileSessionRepository.
type RecordStore interface {
	Upsert(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	ListAll(ctx context.Context) ([]domain.Session, error)
	DeleteByID(ctx context.Context, id string) (*domain.Session, error)
	Count(ctx context.Context) (int64, error)
}

// BlobStore holds the raw video bytes for a session, addressed by the path
// recorded on the session.
type BlobStore interface {
	Put(id string, r io.Reader, originalName string) (path string, size int64, err error)
	Open(path string) (rc io.ReadSeekCloser, size int64, contentType string, err error)
	Remove(path string) error
}
