package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sharek-engine/pkg/validation"
)

var requestValidator = validation.New()

// bindJSON parses the body into dst and checks its validate tags.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return requestValidator.Struct(dst)
}
