package nats

import (
	"testing"

	"note-service-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.NOTE_CREATED", Subject(events.NoteCreated))
	assert.Equal(t, "events.NOTE_DELETED", Subject(events.NoteDeleted))
}

func TestCloseWithoutConnection(t *testing.T) {
	p := &Publisher{}
	assert.NotPanics(t, p.Close)
}
