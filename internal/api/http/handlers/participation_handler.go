package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sharek-engine/internal/api/dto"
	"github.com/spec-kit/sharek-engine/internal/repository"
)

// ParticipationHandler exposes poll votes and survey completions.
type ParticipationHandler struct {
	tracker repository.ParticipationRepository
}

// NewParticipationHandler constructs handler.
func NewParticipationHandler(tracker repository.ParticipationRepository) *ParticipationHandler {
	return &ParticipationHandler{tracker: tracker}
}

func intParam(c *fiber.Ctx, name string) (int, error) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// Summary handles GET /api/participation.
func (h *ParticipationHandler) Summary(c *fiber.Ctx) error {
	polls, err := h.tracker.VotedPolls(c.UserContext())
	if err != nil {
		return err
	}
	surveys, err := h.tracker.CompletedSurveys(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ParticipationResponse{VotedPolls: polls, CompletedSurveys: surveys}})
}

// HasVoted handles GET /api/polls/:id/vote.
func (h *ParticipationHandler) HasVoted(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	voted, err := h.tracker.HasVoted(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PollVoteResponse{PollID: id, Voted: voted}})
}

// RecordVote handles POST /api/polls/:id/vote. A repeat vote reports recorded=false.
func (h *ParticipationHandler) RecordVote(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	added, err := h.tracker.RecordVote(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.PollVoteResponse{PollID: id, Voted: true, Recorded: added}})
}

// HasCompleted handles GET /api/surveys/:id/completion.
func (h *ParticipationHandler) HasCompleted(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	done, err := h.tracker.HasCompleted(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SurveyCompletionResponse{SurveyID: id, Completed: done}})
}

// RecordCompletion handles POST /api/surveys/:id/completion.
func (h *ParticipationHandler) RecordCompletion(c *fiber.Ctx) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	added, err := h.tracker.RecordCompletion(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SurveyCompletionResponse{SurveyID: id, Completed: true, Recorded: added}})
}
