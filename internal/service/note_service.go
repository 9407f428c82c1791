package service

import (
	"context"
	"time"

	"note-service-be/internal/dto"
	"note-service-be/internal/entity"
	"note-service-be/internal/mapper"
	"note-service-be/internal/pkg/logger"
	"note-service-be/internal/repository/contract"
	"note-service-be/pkg/events"
)

// INoteService methods return (nil, nil) when the note does not exist.
type INoteService interface {
	List(ctx context.Context) ([]*dto.NoteResponse, error)
	Show(ctx context.Context, id string) (*dto.NoteResponse, error)
	Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id string) (*dto.NoteResponse, error)
}

type noteService struct {
	noteRepository   contract.NoteRepository
	publisherService IPublisherService
	mapper           *mapper.NoteMapper
	logger           logger.ILogger
	now              func() time.Time
}

func NewNoteService(
	noteRepository contract.NoteRepository,
	publisherService IPublisherService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		noteRepository:   noteRepository,
		publisherService: publisherService,
		mapper:           mapper.NewNoteMapper(),
		logger:           log,
		now:              time.Now,
	}
}

// timestamp is truncated to what every backend can store (mongo keeps milliseconds).
func (c *noteService) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

func (c *noteService) List(ctx context.Context) ([]*dto.NoteResponse, error) {
	notes, err := c.noteRepository.Find(ctx)
	if err != nil {
		return nil, err
	}
	return c.mapper.ToResponses(notes), nil
}

func (c *noteService) Show(ctx context.Context, id string) (*dto.NoteResponse, error) {
	note, err := c.noteRepository.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil // Not found
	}
	return c.mapper.ToResponse(note), nil
}

func (c *noteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	now := c.timestamp()
	note := entity.Note{
		Title:         req.Title,
		Content:       req.Content,
		Tags:          req.Tags,
		SchemaVersion: entity.NoteSchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := c.noteRepository.Create(ctx, &note); err != nil {
		return nil, err
	}

	c.publish(ctx, events.NoteCreated, &note)
	return c.mapper.ToResponse(&note), nil
}

func (c *noteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	patch := entity.NotePatch{
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		UpdatedAt: c.timestamp(),
	}

	note, err := c.noteRepository.FindByIdAndUpdate(ctx, req.Id, patch)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	c.publish(ctx, events.NoteUpdated, note)
	return c.mapper.ToResponse(note), nil
}

func (c *noteService) Delete(ctx context.Context, id string) (*dto.NoteResponse, error) {
	note, err := c.noteRepository.FindByIdAndDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, nil
	}

	c.publish(ctx, events.NoteDeleted, note)
	return c.mapper.ToResponse(note), nil
}

// publish never fails the request; lifecycle events are auxiliary.
func (c *noteService) publish(ctx context.Context, eventType string, note *entity.Note) {
	if c.publisherService == nil {
		return
	}

	err := c.publisherService.Publish(ctx, dto.NoteEventMessage{
		Type:   eventType,
		NoteId: note.Id,
		Title:  note.Title,
		At:     c.timestamp(),
	})
	if err != nil {
		c.logger.Warn("NoteService", "Failed to publish note event", map[string]interface{}{
			"error":   err.Error(),
			"type":    eventType,
			"note_id": note.Id,
		})
	}
}
