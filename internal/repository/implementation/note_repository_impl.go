package implementation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"note-service-be/internal/entity"
	"note-service-be/internal/mapper"
	"note-service-be/internal/model"
	"note-service-be/internal/repository/contract"
	"note-service-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pingTimeout = 2 * time.Second

const (
	lifecycleOpen int32 = iota
	lifecycleClosing
	lifecycleClosed
)

type NoteRepositoryImpl struct {
	db        *gorm.DB
	mapper    *mapper.NoteMapper
	lifecycle atomic.Int32
}

func NewNoteRepository(db *gorm.DB) *NoteRepositoryImpl {
	return &NoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewNoteMapper(),
	}
}

// EnsureSchema creates the notes table when it does not exist yet.
func (r *NoteRepositoryImpl) EnsureSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&model.Note{})
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Driver() string {
	return "postgres"
}

func (r *NoteRepositoryImpl) State() contract.ConnectionState {
	switch r.lifecycle.Load() {
	case lifecycleClosing:
		return contract.StateDisconnecting
	case lifecycleClosed:
		return contract.StateDisconnected
	}

	sqlDB, err := r.db.DB()
	if err != nil {
		return contract.StateDisconnected
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return contract.StateDisconnected
	}
	return contract.StateConnected
}

func (r *NoteRepositoryImpl) Find(ctx context.Context) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specification.OrderBy{Field: "created_at"})
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) FindById(ctx context.Context, id string) (*entity.Note, error) {
	noteId, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid note id %q: %w", id, err)
	}

	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: noteId})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	note.Id = uuid.NewString()
	m, err := r.mapper.ToModel(note)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

// FindByIdAndUpdate applies the patch in a single UPDATE ... RETURNING statement.
func (r *NoteRepositoryImpl) FindByIdAndUpdate(ctx context.Context, id string, patch entity.NotePatch) (*entity.Note, error) {
	noteId, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid note id %q: %w", id, err)
	}

	values := map[string]interface{}{"updated_at": patch.UpdatedAt}
	if patch.Title != nil {
		values["title"] = *patch.Title
	}
	if patch.Content != nil {
		values["content"] = *patch.Content
	}
	if patch.Tags != nil {
		values["tags"] = datatypes.JSONSlice[string](*patch.Tags)
	}

	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&m).Clauses(clause.Returning{}), specification.ByID{ID: noteId})
	result := query.Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindByIdAndDelete(ctx context.Context, id string) (*entity.Note, error) {
	noteId, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid note id %q: %w", id, err)
	}

	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx).Clauses(clause.Returning{}), specification.ByID{ID: noteId})
	result := query.Delete(&m)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) Close(ctx context.Context) error {
	r.lifecycle.Store(lifecycleClosing)
	defer r.lifecycle.Store(lifecycleClosed)

	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
