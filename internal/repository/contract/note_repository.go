package contract

import (
	"context"

	"note-service-be/internal/entity"
)

// NoteRepository is the document store behind the note API.
// Lookups that miss return (nil, nil); any other failure is an error.
type NoteRepository interface {
	Find(ctx context.Context) ([]*entity.Note, error)
	FindById(ctx context.Context, id string) (*entity.Note, error)
	Create(ctx context.Context, note *entity.Note) error
	FindByIdAndUpdate(ctx context.Context, id string, patch entity.NotePatch) (*entity.Note, error)
	FindByIdAndDelete(ctx context.Context, id string) (*entity.Note, error)

	ConnectionReporter
	Close(ctx context.Context) error
}

type ConnectionReporter interface {
	Driver() string
	State() ConnectionState
}
