package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"gaitserver/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileRepo(t *testing.T) (*FileSessionRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.json")
	repo, err := NewFileSessionRepository(path)
	require.NoError(t, err)
	return repo, path
}

func testSession(id, patientID, startTime string) *domain.Session {
	return &domain.Session{
		ID:         id,
		PatientID:  patientID,
		Assessment: domain.AssessmentGood,
		StartTime:  startTime,
		EndTime:    startTime,
		DurationMs: 1500,
		Filename:   id + ".webm",
		Filepath:   "/uploads/" + id + ".webm",
		Size:       42,
	}
}

func TestFileRepo_UpsertAndGet(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSession("a", "p-1", "2024-01-01T10:00:00Z")))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.PatientID)
	assert.Equal(t, domain.AssessmentGood, got.Assessment)
}

func TestFileRepo_GetUnknown(t *testing.T) {
	repo, _ := newFileRepo(t)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFileRepo_UpsertOverwrites(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSession("a", "p-1", "2024-01-01T10:00:00Z")))

	updated := testSession("a", "p-2", "2024-01-02T10:00:00Z")
	updated.Size = 99
	require.NoError(t, repo.Upsert(ctx, updated))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "p-2", got.PatientID)
	assert.Equal(t, int64(99), got.Size)
}

func TestFileRepo_ListAllSortsNewestFirst(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSession("jan", "p", "2024-01-01T00:00:00Z")))
	require.NoError(t, repo.Upsert(ctx, testSession("mar", "p", "2024-03-01T00:00:00Z")))
	require.NoError(t, repo.Upsert(ctx, testSession("feb", "p", "2024-02-01T00:00:00Z")))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "mar", got[0].ID)
	assert.Equal(t, "feb", got[1].ID)
	assert.Equal(t, "jan", got[2].ID)
}

func TestFileRepo_ListAllUnparsableStartTimeSortsAsEpoch(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSession("ok", "p", "2024-02-01T00:00:00Z")))
	require.NoError(t, repo.Upsert(ctx, testSession("bad", "p", "not-a-timestamp")))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ok", got[0].ID)
	assert.Equal(t, "bad", got[1].ID)
}

func TestFileRepo_DeleteReturnsRecord(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSession("a", "p-1", "2024-01-01T10:00:00Z")))

	deleted, err := repo.DeleteByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.webm", deleted.Filepath)

	_, err = repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFileRepo_DeleteUnknownLeavesStoreUntouched(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testSession("a", "p-1", "2024-01-01T10:00:00Z")))

	_, err := repo.DeleteByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

// Two repository instances on the same path model two server processes (or a
// process restart): writes by one must be visible to the other because the
// document is re-read on every call.
func TestFileRepo_RereadsDocumentFromDisk(t *testing.T) {
	repoA, path := newFileRepo(t)
	repoB, err := NewFileSessionRepository(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repoA.Upsert(ctx, testSession("a", "p-1", "2024-01-01T10:00:00Z")))

	got, err := repoB.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.PatientID)

	require.NoError(t, repoB.Upsert(ctx, testSession("b", "p-2", "2024-01-02T10:00:00Z")))

	count, err := repoA.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFileRepo_ConcurrentUpsertsDifferentIDs(t *testing.T) {
	repo, _ := newFileRepo(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("sess-%02d", i)
			errs[i] = repo.Upsert(ctx, testSession(id, fmt.Sprintf("patient-%02d", i), "2024-01-01T10:00:00Z"))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "upsert %d", i)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), count)

	for i := 0; i < n; i++ {
		got, err := repo.GetByID(ctx, fmt.Sprintf("sess-%02d", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("patient-%02d", i), got.PatientID)
	}
}
