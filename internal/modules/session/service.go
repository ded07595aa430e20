package session

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"

	"gaitserver/internal/domain"
	"gaitserver/internal/pkg/validator"
	"gaitserver/internal/repository"
	"gaitserver/internal/storage"

	"github.com/google/uuid"
)

// Service orchestrates the blob store and the record store. The blob is
// written first; there is no transaction spanning both stores, so an upsert
// failure after a successful blob write leaves an orphaned file (logged, never
// rolled back). A missing record with a surviving file is tolerated the same
// way in the other direction.
type Service struct {
	records RecordStore
	blobs   BlobStore
}

func NewService(records RecordStore, blobs BlobStore) *Service {
	return &Service{records: records, blobs: blobs}
}

// Upload persists the video and upserts the session record referencing it.
// A blank SessionID gets a fresh UUID; uploading the same id again overwrites
// both the blob and the record.
func (s *Service) Upload(ctx context.Context, meta UploadMetadata, video io.Reader, originalName string) (*domain.Session, error) {
	meta.PatientID = strings.TrimSpace(meta.PatientID)
	if errs := validator.Validate(meta); errs != nil {
		return nil, ErrValidation
	}

	id := strings.TrimSpace(meta.SessionID)
	if id == "" {
		id = uuid.NewString()
	}

	path, size, err := s.blobs.Put(id, video, originalName)
	if err != nil {
		return nil, err
	}

	rec := &domain.Session{
		ID:         id,
		PatientID:  meta.PatientID,
		Assessment: domain.Assessment(meta.Assessment),
		StartTime:  meta.StartTime,
		EndTime:    meta.EndTime,
		DurationMs: meta.DurationMs,
		Filename:   filepath.Base(path),
		Filepath:   path,
		Size:       size,
	}
	if err := s.records.Upsert(ctx, rec); err != nil {
		log.Printf("session_upsert_failed id=%s orphaned_blob=%s error=%q", id, path, err)
		return nil, err
	}
	return rec, nil
}

// List returns the public projections newest-first. The storage path never
// leaves this layer.
func (s *Service) List(ctx context.Context) ([]domain.PublicSession, error) {
	records, err := s.records.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicSession, 0, len(records))
	for i := range records {
		out = append(out, records[i].Public())
	}
	return out, nil
}

// FetchVideo resolves the id to its blob stream. An unknown id and a record
// whose file was externally removed both surface as ErrNotFound.
func (s *Service) FetchVideo(ctx context.Context, id string) (io.ReadSeekCloser, int64, string, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, 0, "", ErrNotFound
		}
		return nil, 0, "", err
	}
	if rec.Filepath == "" {
		return nil, 0, "", ErrNotFound
	}

	rc, size, contentType, err := s.blobs.Open(rec.Filepath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, 0, "", ErrNotFound
		}
		return nil, 0, "", err
	}
	return rc, size, contentType, nil
}

// Delete removes the record first, so a racing fetch never serves a
// half-deleted session, then removes the blob best-effort. A blob that cannot
// be removed is logged and leaked; the record is the source of truth and it is
// already gone.
func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.records.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.blobs.Remove(rec.Filepath); err != nil {
		log.Printf("blob_remove_failed id=%s path=%s error=%q", id, rec.Filepath, err)
	}
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.records.Count(ctx)
}
