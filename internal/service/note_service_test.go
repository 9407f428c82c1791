package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"note-service-be/internal/dto"
	"note-service-be/internal/pkg/logger"
	"note-service-be/internal/repository/memory"
	"note-service-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []dto.NoteEventMessage
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, evt dto.NoteEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func newTestNoteService(pub IPublisherService) *noteService {
	svc := NewNoteService(memory.NewNoteRepository(), pub, logger.NewNopLogger()).(*noteService)
	clock := time.Date(2026, 10, 18, 9, 0, 0, 123456789, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func strPtr(s string) *string { return &s }

func TestNoteServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newTestNoteService(pub)

	created, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "Shopping", Content: "eggs", Tags: []string{"home"}})
	require.NoError(t, err)
	require.NotEmpty(t, created.Id)
	assert.Equal(t, 1, created.SchemaVersion)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	assert.Zero(t, created.CreatedAt.Nanosecond()%int(time.Millisecond))

	shown, err := svc.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created, shown)

	updated, err := svc.Update(ctx, &dto.UpdateNoteRequest{Id: created.Id, Content: strPtr("eggs, milk")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Shopping", updated.Title)
	assert.Equal(t, "eggs, milk", updated.Content)
	assert.Equal(t, []string{"home"}, updated.Tags)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	deleted, err := svc.Delete(ctx, created.Id)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	shown, err = svc.Show(ctx, created.Id)
	require.NoError(t, err)
	assert.Nil(t, shown)

	assert.Equal(t, []string{events.NoteCreated, events.NoteUpdated, events.NoteDeleted}, pub.types())
}

func TestNoteServiceMissingNotes(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := newTestNoteService(pub)

	updated, err := svc.Update(ctx, &dto.UpdateNoteRequest{Id: "missing", Title: strPtr("x")})
	assert.NoError(t, err)
	assert.Nil(t, updated)

	deleted, err := svc.Delete(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, deleted)

	assert.Empty(t, pub.types())
}

func TestNoteServiceListExcludesDeleted(t *testing.T) {
	ctx := context.Background()
	svc := newTestNoteService(nil)

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		res, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: title})
		require.NoError(t, err)
		ids = append(ids, res.Id)
	}
	_, err := svc.Delete(ctx, ids[1])
	require.NoError(t, err)

	notes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, ids[0], notes[0].Id)
	assert.Equal(t, ids[2], notes[1].Id)
}

func TestNoteServiceListEmptyIsNotNil(t *testing.T) {
	notes, err := newTestNoteService(nil).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestNoteServicePublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus down")}
	svc := newTestNoteService(pub)

	res, err := svc.Create(context.Background(), &dto.CreateNoteRequest{Title: "still saved"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Id)
}
