// Package auth provides the session check for every page and the admin guard for the settings.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/handler/login"
	"github.com/LocalBlog-Admin/LocalBlog-Admin/internal/web/session"
)

// APIPrefix marks requests that get JSON errors instead of redirects.
const APIPrefix = "/api/"

// publicPrefixes are served without a session.
var publicPrefixes = []string{"/static", "/logout", "/auth/oidc", "/checkalive", "/metrics"}

// Middleware is a Fiber middleware that checks for user authentication.
// The session user is put into the locals under handler.LocalsCurrentUser.
func Middleware(c *fiber.Ctx) error {
	originalURL := strings.ToLower(c.Path())

	for _, p := range publicPrefixes {
		if strings.HasPrefix(originalURL, p) {
			return c.Next()
		}
	}

	isLoginPage := IsLoginPage(c)

	sessData := new(session.Data)
	if err := sessData.Read(c.Cookies(session.CookieName)); err != nil || sessData.User.ID == 0 {
		if isLoginPage {
			return c.Next()
		}

		if IsAPI(c) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		return c.Redirect(login.Path)
	}

	if isLoginPage {
		return c.Redirect("/dashboard")
	}

	c.Locals(handler.LocalsCurrentUser, sessData.User)

	return c.Next()
}

// RequireAdmin rejects users without the admin role.
func RequireAdmin(c *fiber.Ctx) error {
	if !handler.CurrentUser(c).IsAdmin() {
		if IsAPI(c) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}

		return c.Status(fiber.StatusForbidden).SendString("Forbidden")
	}

	return c.Next()
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Path()), login.Path)
}

// IsAPI checks if the current request is for the JSON api.
func IsAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Path()), APIPrefix)
}
