package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"note-service-be/internal/entity"
	"note-service-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestRepository(t *testing.T) *NoteRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "nested", "notes.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() {
		if repo.State() == contract.StateConnected {
			_ = repo.Close(context.Background())
		}
	})
	return repo
}

func TestNoteRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	note := &entity.Note{Title: "bolt", Content: "body", Tags: []string{"a", "b"}, SchemaVersion: 1, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, note))
	require.NotEmpty(t, note.Id)

	got, err := repo.FindById(ctx, note.Id)
	require.NoError(t, err)
	assert.Equal(t, note, got)

	tags := []string{"c"}
	updated, err := repo.FindByIdAndUpdate(ctx, note.Id, entity.NotePatch{Tags: &tags, UpdatedAt: now.Add(time.Minute)})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, updated.Tags)
	assert.Equal(t, "bolt", updated.Title)
	assert.Equal(t, now.Add(time.Minute), updated.UpdatedAt)

	deleted, err := repo.FindByIdAndDelete(ctx, note.Id)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	got, err = repo.FindById(ctx, note.Id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNoteRepositoryMisses(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)
	id := uuid.NewString()

	got, err := repo.FindById(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, got)

	updated, err := repo.FindByIdAndUpdate(ctx, id, entity.NotePatch{})
	assert.NoError(t, err)
	assert.Nil(t, updated)

	deleted, err := repo.FindByIdAndDelete(ctx, id)
	assert.NoError(t, err)
	assert.Nil(t, deleted)

	_, err = repo.FindById(ctx, "nope")
	assert.Error(t, err)
}

func TestNoteRepositoryFindSortsByCreation(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepository(t)
	base := time.Now().UTC()

	for i, title := range []string{"one", "two", "three"} {
		require.NoError(t, repo.Create(ctx, &entity.Note{Title: title, CreatedAt: base.Add(time.Duration(i) * time.Second)}))
	}

	notes, err := repo.Find(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "one", notes[0].Title)
	assert.Equal(t, "three", notes[2].Title)
}

func TestNoteRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.db")

	repo, err := Open(path, time.Second)
	require.NoError(t, err)
	note := &entity.Note{Title: "durable"}
	require.NoError(t, repo.Create(ctx, note))
	require.NoError(t, repo.Close(ctx))
	assert.Equal(t, contract.StateDisconnected, repo.State())

	reopened, err := Open(path, time.Second)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	got, err := reopened.FindById(ctx, note.Id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "durable", got.Title)
}
