package controller

import (
	"bytes"
	"encoding/json"
	"fmt"

	"note-service-be/internal/dto"
	"note-service-be/internal/pkg/logger"
	"note-service-be/internal/pkg/serverutils"
	"note-service-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const noteNotFoundMessage = "Note not found"

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
	logger      logger.ILogger
}

func NewNoteController(noteService service.INoteService, log logger.ILogger) INoteController {
	return &noteController{
		noteService: noteService,
		logger:      log,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Patch(":id", c.Update)
	h.Delete(":id", c.Delete)
}

// fail logs the cause for operators; clients only ever see {"status":"fail"}.
func (c *noteController) fail(ctx *fiber.Ctx, op string, err error) error {
	c.logger.Error("NoteController", "Note operation failed", map[string]interface{}{
		"operation": op,
		"id":        ctx.Params("id"),
		"error":     err,
	})
	return serverutils.Fail(ctx)
}

// parseBody treats an empty body as an empty JSON object.
func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if len(ctx.Body()) == 0 {
		return nil
	}
	return ctx.BodyParser(out)
}

// rejectNullFields fails a patch that sets one of fields to JSON null. A nil
// pointer already means "leave unchanged", so null cannot also mean "clear".
func rejectNullFields(body []byte, fields ...string) error {
	if len(body) == 0 {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return err
	}
	for _, field := range fields {
		if v, ok := raw[field]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return fmt.Errorf("field %q must not be null", field)
		}
	}
	return nil
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	notes, err := c.noteService.List(ctx.UserContext())
	if err != nil {
		return c.fail(ctx, "list", err)
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.ListNotesResponse{Notes: notes})
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	note, err := c.noteService.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return c.fail(ctx, "show", err)
	}
	if note == nil {
		return serverutils.NotFound(ctx, noteNotFoundMessage)
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.ShowNoteResponse{Note: note})
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := parseBody(ctx, &req); err != nil {
		return c.fail(ctx, "create", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return c.fail(ctx, "create", err)
	}

	note, err := c.noteService.Create(ctx.UserContext(), &req)
	if err != nil {
		return c.fail(ctx, "create", err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(dto.ShowNoteResponse{Note: note})
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateNoteRequest
	if err := parseBody(ctx, &req); err != nil {
		return c.fail(ctx, "update", err)
	}
	if err := rejectNullFields(ctx.Body(), "title", "content", "tags"); err != nil {
		return c.fail(ctx, "update", err)
	}
	req.Id = ctx.Params("id")

	if err := serverutils.ValidateRequest(req); err != nil {
		return c.fail(ctx, "update", err)
	}

	note, err := c.noteService.Update(ctx.UserContext(), &req)
	if err != nil {
		return c.fail(ctx, "update", err)
	}
	if note == nil {
		return serverutils.NotFound(ctx, noteNotFoundMessage)
	}

	return ctx.Status(fiber.StatusOK).JSON(dto.ShowNoteResponse{Note: note})
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	note, err := c.noteService.Delete(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return c.fail(ctx, "delete", err)
	}
	if note == nil {
		return serverutils.NotFound(ctx, noteNotFoundMessage)
	}

	return serverutils.Success(ctx)
}
