package entity

import "time"

// NoteSchemaVersion is the version of the note field set written by this service.
const NoteSchemaVersion = 1

type Note struct {
	Id            string
	Title         string
	Content       string
	Tags          []string
	SchemaVersion int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NotePatch carries the fields of a partial update. Nil means "leave unchanged".
type NotePatch struct {
	Title     *string
	Content   *string
	Tags      *[]string
	UpdatedAt time.Time
}

// ApplyTo merges the patch into n in place.
func (p NotePatch) ApplyTo(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = append([]string(nil), (*p.Tags)...)
	}
	n.UpdatedAt = p.UpdatedAt
}

func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	c := *n
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	return &c
}
