package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/observability"
	apperrors "github.com/spec-kit/sharek-engine/pkg/util"
)

// RegisterMiddlewares installs, outermost first: the request logger, the error
// renderer and the per-request deadline. The logger must wrap the renderer so
// it observes the status the client actually received.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorRenderer(logger, metrics))
	if timeout > 0 {
		app.Use(withDeadline(timeout))
	}
}

func withDeadline(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorRenderer turns handler errors and panics into the JSON error envelope.
// It always returns nil, so nothing downstream of it sees the error.
func errorRenderer(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				err = renderError(c, logger, metrics, apperrors.ToDomainError(err))
			}
		}()
		return c.Next()
	}
}

func renderError(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, de *apperrors.DomainError) error {
	metrics.RecordError(c.Path(), c.Method(), de.Code)

	switch {
	case de.HTTPStatus >= fiber.StatusInternalServerError:
		logger.Error("request failed", zap.String("path", c.Path()), zap.String("code", de.Code), zap.Error(de))
	case de.Code == apperrors.CodeContentFlagged:
		logger.Info("submission held by moderation", zap.String("path", c.Path()))
	}

	body := fiber.Map{"code": de.Code, "message": de.Message}
	if len(de.Details) > 0 {
		body["details"] = de.Details
	}
	if jsonErr := c.Status(de.HTTPStatus).JSON(fiber.Map{"error": body}); jsonErr != nil {
		logger.Warn("write error response", zap.Error(jsonErr))
	}
	return nil
}
