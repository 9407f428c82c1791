package memory

import (
	"context"
	"sort"
	"sync"

	"note-service-be/internal/entity"
	"note-service-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// NoteRepository keeps notes in process memory. Notes never expire.
type NoteRepository struct {
	mu    sync.Mutex // serialises read-modify-write on top of the cache's own locking
	cache *cache.Cache
	state contract.ConnectionState
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{
		cache: cache.New(cache.NoExpiration, 0),
		state: contract.StateConnected,
	}
}

func (r *NoteRepository) Driver() string {
	return "memory"
}

func (r *NoteRepository) State() contract.ConnectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SetState lets tests and local runs simulate a degraded store.
func (r *NoteRepository) SetState(state contract.ConnectionState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
}

// Find returns notes oldest first.
func (r *NoteRepository) Find(ctx context.Context) ([]*entity.Note, error) {
	items := r.cache.Items()
	notes := make([]*entity.Note, 0, len(items))
	for _, item := range items {
		notes = append(notes, item.Object.(*entity.Note).Clone())
	}

	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].Id < notes[j].Id
		}
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

func (r *NoteRepository) FindById(ctx context.Context, id string) (*entity.Note, error) {
	if x, found := r.cache.Get(id); found {
		return x.(*entity.Note).Clone(), nil
	}
	return nil, nil
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	note.Id = uuid.NewString()
	r.cache.Set(note.Id, note.Clone(), cache.NoExpiration)
	return nil
}

func (r *NoteRepository) FindByIdAndUpdate(ctx context.Context, id string, patch entity.NotePatch) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(id)
	if !found {
		return nil, nil
	}

	note := x.(*entity.Note).Clone()
	patch.ApplyTo(note)
	r.cache.Set(id, note, cache.NoExpiration)
	return note.Clone(), nil
}

func (r *NoteRepository) FindByIdAndDelete(ctx context.Context, id string) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(id)
	if !found {
		return nil, nil
	}
	r.cache.Delete(id)
	return x.(*entity.Note), nil
}

func (r *NoteRepository) Close(ctx context.Context) error {
	r.SetState(contract.StateDisconnected)
	return nil
}
