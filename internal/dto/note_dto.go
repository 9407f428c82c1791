package dto

import "time"

type CreateNoteRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"max=10000"`
	Tags    []string `json:"tags" validate:"max=20,dive,min=1,max=32"`
}

// UpdateNoteRequest is a partial update. Every supplied field must satisfy the same
// rule as on create, so a valid stored note stays valid after the merge.
type UpdateNoteRequest struct {
	Id      string    `json:"-"`
	Title   *string   `json:"title" validate:"omitnil,min=1,max=200"`
	Content *string   `json:"content" validate:"omitnil,max=10000"`
	Tags    *[]string `json:"tags" validate:"omitnil,max=20,dive,min=1,max=32"`
}

type NoteResponse struct {
	Id            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Tags          []string  `json:"tags"`
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListNotesResponse struct {
	Notes []*NoteResponse `json:"notes"`
}

type ShowNoteResponse struct {
	Note *NoteResponse `json:"note"`
}

type NoteEventMessage struct {
	Type   string    `json:"type"`
	NoteId string    `json:"note_id"`
	Title  string    `json:"title,omitempty"`
	At     time.Time `json:"at"`
}
