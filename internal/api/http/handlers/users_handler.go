package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sharek-engine/internal/api/dto"
	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/repository"
	"github.com/spec-kit/sharek-engine/internal/service"
)

// UsersHandler exposes account and user-record endpoints.
type UsersHandler struct {
	auth  *service.AuthService
	users repository.UserRepository
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, users repository.UserRepository) *UsersHandler {
	return &UsersHandler{auth: authService, users: users}
}

func emailParam(c *fiber.Ctx) (string, error) {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return "", fiber.NewError(http.StatusBadRequest, "invalid email")
	}
	return email, nil
}

func userJSON(c *fiber.Ctx, status int, user *domain.UserData) error {
	return c.Status(status).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Register handles POST /api/auth/signup.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.auth.RegisterUser(c.UserContext(), req.Profile())
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, err := h.auth.CurrentUser(c.UserContext())
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.GetAllUsers(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /api/users/:email.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.UserContext(), email)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/users/:email/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	var patch domain.ProfilePatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}
	user, err := h.users.UpdateUserProfile(c.UserContext(), email, patch)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// UpdateSettings handles PATCH /api/users/:email/settings.
func (h *UsersHandler) UpdateSettings(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	var patch domain.SettingsPatch
	if err := bindJSON(c, &patch); err != nil {
		return err
	}
	user, err := h.users.UpdateUserSettings(c.UserContext(), email, patch)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// AddFeedback handles POST /api/users/:email/feedback.
func (h *UsersHandler) AddFeedback(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	user, err := h.users.AddFeedback(c.UserContext(), email)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// AddSatisfactionRating handles POST /api/users/:email/ratings.
func (h *UsersHandler) AddSatisfactionRating(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	var req dto.SatisfactionRatingRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.users.AddSatisfactionRating(c.UserContext(), email, req.Service, req.Rating)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusCreated, user)
}

// AddServiceCenterRating handles POST /api/users/:email/center-ratings.
func (h *UsersHandler) AddServiceCenterRating(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	var req dto.ServiceCenterRatingRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.users.AddServiceCenterRating(c.UserContext(), email, req.CenterID, req.CenterName, req.Rating)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// AddAppointment handles POST /api/users/:email/appointments.
func (h *UsersHandler) AddAppointment(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	var req dto.AppointmentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	id, err := h.users.AddAppointment(c.UserContext(), email, domain.AppointmentRequest{Service: req.Service, Date: req.Date})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// UpdateAppointmentStatus handles PATCH /api/users/:email/appointments/:id.
func (h *UsersHandler) UpdateAppointmentStatus(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	var req dto.AppointmentStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	user, err := h.users.UpdateAppointmentStatus(c.UserContext(), email, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// AddNotification handles POST /api/users/:email/notifications.
func (h *UsersHandler) AddNotification(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	var req dto.NotificationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	notification, err := h.users.AddNotification(c.UserContext(), email, repository.NotificationInput{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": notification})
}

// MarkNotificationRead handles POST /api/users/:email/notifications/:id/read.
func (h *UsersHandler) MarkNotificationRead(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	user, err := h.users.MarkNotificationAsRead(c.UserContext(), email, c.Params("id"))
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}

// MarkAllNotificationsRead handles POST /api/users/:email/notifications/read-all.
func (h *UsersHandler) MarkAllNotificationsRead(c *fiber.Ctx) error {
	email, err := emailParam(c)
	if err != nil {
		return err
	}
	user, err := h.users.MarkAllNotificationsAsRead(c.UserContext(), email)
	if err != nil {
		return err
	}
	return userJSON(c, http.StatusOK, user)
}
