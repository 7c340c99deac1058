package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/observability"
	"github.com/spec-kit/sharek-engine/internal/repository"
)

// ForumHandler exposes the discussion board.
type ForumHandler struct {
	forum   repository.ForumRepository
	metrics *observability.Metrics
}

// NewForumHandler constructs handler.
func NewForumHandler(forum repository.ForumRepository, metrics *observability.Metrics) *ForumHandler {
	return &ForumHandler{forum: forum, metrics: metrics}
}

func (h *ForumHandler) countRejection(kind string, err error) error {
	if errors.Is(err, domain.ErrFlagged) {
		h.metrics.RecordRejection(kind)
	}
	return err
}

// List handles GET /api/forum/ideas.
func (h *ForumHandler) List(c *fiber.Ctx) error {
	ideas, err := h.forum.ListIdeas(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ideas})
}

// Create handles POST /api/forum/ideas.
func (h *ForumHandler) Create(c *fiber.Ctx) error {
	var req domain.NewIdeaInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	idea, err := h.forum.CreateIdea(c.UserContext(), req)
	if err != nil {
		return h.countRejection("idea", err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": idea})
}

// Get handles GET /api/forum/ideas/:id.
func (h *ForumHandler) Get(c *fiber.Ctx) error {
	idea, err := h.forum.GetIdea(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": idea})
}

// View handles POST /api/forum/ideas/:id/view.
func (h *ForumHandler) View(c *fiber.Ctx) error {
	idea, err := h.forum.RecordView(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": idea})
}

// ToggleLike handles POST /api/forum/ideas/:id/like.
func (h *ForumHandler) ToggleLike(c *fiber.Ctx) error {
	idea, err := h.forum.ToggleLike(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": idea})
}

// AddComment handles POST /api/forum/ideas/:id/comments.
func (h *ForumHandler) AddComment(c *fiber.Ctx) error {
	var req domain.NewCommentInput
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	idea, err := h.forum.AddComment(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.countRejection("comment", err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": idea})
}
