package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"note-service-be/internal/entity"
	"note-service-be/internal/repository/contract"
	"note-service-be/pkg/database"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var notesBucket = []byte("notes")

type noteRecord struct {
	Id            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Tags          []string  `json:"tags,omitempty"`
	SchemaVersion int       `json:"schema_version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (r *noteRecord) toEntity() *entity.Note {
	return &entity.Note{
		Id:            r.Id,
		Title:         r.Title,
		Content:       r.Content,
		Tags:          r.Tags,
		SchemaVersion: r.SchemaVersion,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func fromEntity(n *entity.Note) *noteRecord {
	return &noteRecord{
		Id:            n.Id,
		Title:         n.Title,
		Content:       n.Content,
		Tags:          n.Tags,
		SchemaVersion: n.SchemaVersion,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// NoteRepository stores one JSON document per note in a single bucket.
type NoteRepository struct {
	db     *bolt.DB
	closed atomic.Bool
}

func Open(path string, timeout time.Duration) (*NoteRepository, error) {
	db, err := database.NewBoltDB(path, timeout, string(notesBucket))
	if err != nil {
		return nil, err
	}
	return &NoteRepository{db: db}, nil
}

func (r *NoteRepository) Driver() string {
	return "bolt"
}

func (r *NoteRepository) State() contract.ConnectionState {
	if r.closed.Load() {
		return contract.StateDisconnected
	}
	return contract.StateConnected
}

func (r *NoteRepository) Find(ctx context.Context) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(notesBucket).ForEach(func(k, v []byte) error {
			var rec noteRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode note %s: %w", k, err)
			}
			notes = append(notes, rec.toEntity())
			return nil
		})
	})
	if err != nil {
		return nil, err
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
	if err := validateId(id); err != nil {
		return nil, err
	}

	var note *entity.Note
	err := r.db.View(func(tx *bolt.Tx) error {
		rec, err := get(tx, id)
		if err != nil || rec == nil {
			return err
		}
		note = rec.toEntity()
		return nil
	})
	return note, err
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	note.Id = uuid.NewString()
	return r.db.Update(func(tx *bolt.Tx) error {
		return put(tx, fromEntity(note))
	})
}

func (r *NoteRepository) FindByIdAndUpdate(ctx context.Context, id string, patch entity.NotePatch) (*entity.Note, error) {
	if err := validateId(id); err != nil {
		return nil, err
	}

	var note *entity.Note
	err := r.db.Update(func(tx *bolt.Tx) error {
		rec, err := get(tx, id)
		if err != nil || rec == nil {
			return err
		}
		n := rec.toEntity()
		patch.ApplyTo(n)
		if err := put(tx, fromEntity(n)); err != nil {
			return err
		}
		note = n
		return nil
	})
	return note, err
}

func (r *NoteRepository) FindByIdAndDelete(ctx context.Context, id string) (*entity.Note, error) {
	if err := validateId(id); err != nil {
		return nil, err
	}

	var note *entity.Note
	err := r.db.Update(func(tx *bolt.Tx) error {
		rec, err := get(tx, id)
		if err != nil || rec == nil {
			return err
		}
		if err := tx.Bucket(notesBucket).Delete([]byte(id)); err != nil {
			return err
		}
		note = rec.toEntity()
		return nil
	})
	return note, err
}

func (r *NoteRepository) Close(ctx context.Context) error {
	r.closed.Store(true)
	return r.db.Close()
}

func validateId(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid note id %q: %w", id, err)
	}
	return nil
}

func get(tx *bolt.Tx, id string) (*noteRecord, error) {
	v := tx.Bucket(notesBucket).Get([]byte(id))
	if v == nil {
		return nil, nil
	}
	var rec noteRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, fmt.Errorf("decode note %s: %w", id, err)
	}
	return &rec, nil
}

func put(tx *bolt.Tx, rec *noteRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return tx.Bucket(notesBucket).Put([]byte(rec.Id), data)
}
