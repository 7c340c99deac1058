package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sharek-engine/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Users         *handlers.UsersHandler
	Participation *handlers.ParticipationHandler
	Forum         *handlers.ForumHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.Users.Logout)
	authGroup.Get("/me", cfg.Users.Me)

	users := api.Group("/users")
	users.Get("/", cfg.Users.List)
	users.Get("/:email", cfg.Users.Get)
	users.Patch("/:email/profile", cfg.Users.UpdateProfile)
	users.Patch("/:email/settings", cfg.Users.UpdateSettings)
	users.Post("/:email/feedback", cfg.Users.AddFeedback)
	users.Post("/:email/ratings", cfg.Users.AddSatisfactionRating)
	users.Post("/:email/center-ratings", cfg.Users.AddServiceCenterRating)
	users.Post("/:email/appointments", cfg.Users.AddAppointment)
	users.Patch("/:email/appointments/:id", cfg.Users.UpdateAppointmentStatus)
	users.Post("/:email/notifications", cfg.Users.AddNotification)
	users.Post("/:email/notifications/read-all", cfg.Users.MarkAllNotificationsRead)
	users.Post("/:email/notifications/:id/read", cfg.Users.MarkNotificationRead)

	api.Get("/participation", cfg.Participation.Summary)
	api.Get("/polls/:id/vote", cfg.Participation.HasVoted)
	api.Post("/polls/:id/vote", cfg.Participation.RecordVote)
	api.Get("/surveys/:id/completion", cfg.Participation.HasCompleted)
	api.Post("/surveys/:id/completion", cfg.Participation.RecordCompletion)

	forum := api.Group("/forum/ideas")
	forum.Get("/", cfg.Forum.List)
	forum.Post("/", cfg.Forum.Create)
	forum.Get("/:id", cfg.Forum.Get)
	forum.Post("/:id/view", cfg.Forum.View)
	forum.Post("/:id/like", cfg.Forum.ToggleLike)
	forum.Post("/:id/comments", cfg.Forum.AddComment)
}
