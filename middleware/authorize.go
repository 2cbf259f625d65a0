package middleware

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/obiora789/My-Personal-Blog/models"
)

// RequireLogin redirects anonymous visitors to the login page, carrying the
// originally requested URL in the next parameter so a successful login can
// return them there.
func RequireLogin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentUserID(c); !ok {
			return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
		}
		return c.Next()
	}
}

// AdminOnly allows only the admin identity through. Anyone else gets a hard
// 403, with no flash and no redirect.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := CurrentUserID(c)
		if !ok || id != models.AdminID {
			return fiber.ErrForbidden
		}
		return c.Next()
	}
}
