// Package handler holds what the page handlers share: layout names, the current user and the error to status mapping.
package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/db/models"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/notify"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/pipeline"
)

// ErrInvalidID is returned for non numeric or zero path ids.
var ErrInvalidID = errors.New("invalid id")

// BlogService runs the generation pipeline for the current user.
type BlogService interface {
	Generate(ctx context.Context, ownerID, clientID uint64) (*models.Blog, error)
	Regenerate(ctx context.Context, ownerID, clientID, blogID uint64) (*models.Blog, error)
}

// CurrentUser returns the user the auth middleware put into the request locals, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	switch u := c.Locals(LocalsCurrentUser).(type) {
	case *models.User:
		return u
	case models.User:
		return &u
	default:
		return nil
	}
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return id, nil
}

// Status maps pipeline and notification errors to an http status code.
func Status(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, ErrInvalidID):
		return fiber.StatusBadRequest
	case errors.Is(err, pipeline.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, pipeline.ErrMissingCredential),
		errors.Is(err, pipeline.ErrIncompleteClient),
		errors.Is(err, notify.ErrWebhookNotConfigured):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrGenerationFailed),
		errors.Is(err, notify.ErrDeliveryFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// Message is the user visible text for err. Internal failures are not spelled out.
func Message(err error) string {
	switch Status(err) {
	case fiber.StatusBadRequest:
		return "Invalid request"
	case fiber.StatusNotFound:
		return "Not found"
	case fiber.StatusUnprocessableEntity:
		switch {
		case errors.Is(err, pipeline.ErrMissingCredential):
			return "No API key configured for this client"
		case errors.Is(err, pipeline.ErrIncompleteClient):
			return "Business name, service and city are required before generating"
		default:
			return "No webhook URL configured"
		}
	case fiber.StatusBadGateway:
		if errors.Is(err, notify.ErrDeliveryFailed) {
			return "Webhook delivery failed"
		}

		return "Blog generation failed, please try again"
	case fiber.StatusGatewayTimeout:
		return "The request took too long"
	default:
		return "Internal server error"
	}
}
