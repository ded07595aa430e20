package repository

import (
	"context"
	"errors"
	"time"

	"gaitserver/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSessionNotFound is returned by every backend when the id is unknown.
var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

type sessionModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	PatientID  string    `gorm:"column:patient_id;not null"`
	Assessment string    `gorm:"column:assessment"`
	StartTime  string    `gorm:"column:start_time"`
	EndTime    string    `gorm:"column:end_time"`
	DurationMs int64     `gorm:"column:duration_ms;default:0"`
	Filename   string    `gorm:"column:filename"`
	Filepath   string    `gorm:"column:filepath"`
	Size       int64     `gorm:"column:size;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (sessionModel) TableName() string { return "sessions" }

func toDomainSession(m sessionModel) *domain.Session {
	return &domain.Session{
		ID:         m.ID,
		PatientID:  m.PatientID,
		Assessment: domain.Assessment(m.Assessment),
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		DurationMs: m.DurationMs,
		Filename:   m.Filename,
		Filepath:   m.Filepath,
		Size:       m.Size,
		CreatedAt:  m.CreatedAt,
	}
}

func toSessionModel(s *domain.Session) sessionModel {
	return sessionModel{
		ID:         s.ID,
		PatientID:  s.PatientID,
		Assessment: string(s.Assessment),
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		DurationMs: s.DurationMs,
		Filename:   s.Filename,
		Filepath:   s.Filepath,
		Size:       s.Size,
		CreatedAt:  s.CreatedAt,
	}
}

func (r *SessionRepository) Migrate() error {
	return r.db.AutoMigrate(&sessionModel{})
}

// Upsert inserts the record or replaces every field of the existing row with
// the same id, in a single statement.
func (r *SessionRepository) Upsert(ctx context.Context, s *domain.Session) error {
	m := toSessionModel(s)
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"patient_id", "assessment", "start_time", "end_time",
			"duration_ms", "filename", "filepath", "size",
		}),
	}).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainSession(m)
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	var m sessionModel
	tx := r.db.WithContext(ctx).First(&m, "id = ?", id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, tx.Error
	}
	return toDomainSession(m), nil
}

// ListAll returns every session newest-first. start_time holds ISO-8601 text,
// so the lexicographic DESC order is chronological for well-formed values.
func (r *SessionRepository) ListAll(ctx context.Context) ([]domain.Session, error) {
	var ms []sessionModel
	tx := r.db.WithContext(ctx).Order("start_time DESC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Session, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainSession(m))
	}
	return out, nil
}

// DeleteByID removes the row and returns the deleted record so the caller can
// locate its blob.
func (r *SessionRepository) DeleteByID(ctx context.Context, id string) (*domain.Session, error) {
	var deleted *domain.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m sessionModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return err
		}
		if err := tx.Delete(&sessionModel{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = toDomainSession(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *SessionRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&sessionModel{}).Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}
