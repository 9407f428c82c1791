package mapper

import (
	"note-service-be/internal/dto"
	"note-service-be/internal/entity"
	"note-service-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:            n.Id.String(),
		Title:         n.Title,
		Content:       n.Content,
		Tags:          []string(n.Tags),
		SchemaVersion: n.SchemaVersion,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// ToModel fails only when the entity carries an id that is not a UUID.
func (m *NoteMapper) ToModel(n *entity.Note) (*model.Note, error) {
	if n == nil {
		return nil, nil
	}

	var id uuid.UUID
	if n.Id != "" {
		parsed, err := uuid.Parse(n.Id)
		if err != nil {
			return nil, err
		}
		id = parsed
	}

	return &model.Note{
		Id:            id,
		Title:         n.Title,
		Content:       n.Content,
		Tags:          datatypes.JSONSlice[string](n.Tags),
		SchemaVersion: n.SchemaVersion,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}, nil
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NoteMapper) ToResponse(n *entity.Note) *dto.NoteResponse {
	if n == nil {
		return nil
	}

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}

	return &dto.NoteResponse{
		Id:            n.Id,
		Title:         n.Title,
		Content:       n.Content,
		Tags:          tags,
		SchemaVersion: n.SchemaVersion,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

func (m *NoteMapper) ToResponses(notes []*entity.Note) []*dto.NoteResponse {
	responses := make([]*dto.NoteResponse, len(notes))
	for i, n := range notes {
		responses[i] = m.ToResponse(n)
	}
	return responses
}
