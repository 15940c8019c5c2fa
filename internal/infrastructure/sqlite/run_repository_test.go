package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *RunRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.RunRepository()
}

// testRun builds a completed run starting at the given Unix second.
func testRun(id string, startedAt int64) *Run {
	started := time.Unix(startedAt, 0)
	return &Run{
		ID:           id,
		StartedAt:    started,
		FinishedAt:   started.Add(1 * time.Second),
		Duration:     420 * time.Millisecond,
		Status:       RunStatusCompleted,
		ConfigName:   "application",
		Profiles:     []string{"prod", "default"},
		SourceCount:  3,
		Contributors: []string{"core.environment", "core.logging"},
	}
}

func TestRunRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepository(t)
	run := testRun("run-1", 1700000000)

	require.NoError(t, repo.Save(run))

	got, err := repo.Get("run-1")
	require.NoError(t, err)
	require.Equal(t, run, got)
}

func TestRunRepository_Get_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get("missing")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestRunRepository_Save_DuplicateID(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, repo.Save(testRun("run-1", 1700000000)))
	require.Error(t, repo.Save(testRun("run-1", 1700000100)))
}

func TestRunRepository_SaveFailedRun(t *testing.T) {
	repo := newTestRepository(t)
	started := time.Unix(1700000000, 0)
	run := &Run{
		ID:         "run-failed",
		StartedAt:  started,
		FinishedAt: started.Add(1 * time.Second),
		Duration:   50 * time.Millisecond,
		Status:     RunStatusFailed,
		Error:      `loading property source from "application.yml": yaml: line 2: mapping values are not allowed in this context`,
	}

	require.NoError(t, repo.Save(run))

	got, err := repo.Get("run-failed")
	require.NoError(t, err)
	require.Equal(t, RunStatusFailed, got.Status)
	require.Equal(t, run.Error, got.Error)
	require.Nil(t, got.Profiles)
	require.Nil(t, got.Contributors)
}

func TestRunRepository_List_NewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Save(testRun("run-old", 1700000000)))
	require.NoError(t, repo.Save(testRun("run-mid", 1700000100)))
	require.NoError(t, repo.Save(testRun("run-new", 1700000200)))

	runs, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	require.Equal(t, "run-new", runs[0].ID)
	require.Equal(t, "run-mid", runs[1].ID)
	require.Equal(t, "run-old", runs[2].ID)
}

func TestRunRepository_List_Limit(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Save(testRun("run-old", 1700000000)))
	require.NoError(t, repo.Save(testRun("run-mid", 1700000100)))
	require.NoError(t, repo.Save(testRun("run-new", 1700000200)))

	runs, err := repo.List(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, "run-new", runs[0].ID)
	require.Equal(t, "run-mid", runs[1].ID)
}

func TestRunRepository_List_Empty(t *testing.T) {
	repo := newTestRepository(t)

	runs, err := repo.List(0)
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestRunRepository_Prune(t *testing.T) {
	repo := newTestRepository(t)
	for i := int64(0); i < 5; i++ {
		require.NoError(t, repo.Save(testRun(
			"run-"+time.Unix(1700000000+i*100, 0).Format("150405"),
			1700000000+i*100,
		)))
	}

	deleted, err := repo.Prune(2)
	require.NoError(t, err)
	require.Equal(t, 3, deleted)

	runs, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
}

func TestRunRepository_Prune_KeepMoreThanRows(t *testing.T) {
	repo := newTestRepository(t)
	require.NoError(t, repo.Save(testRun("run-1", 1700000000)))

	deleted, err := repo.Prune(10)
	require.NoError(t, err)
	require.Equal(t, 0, deleted)
}
