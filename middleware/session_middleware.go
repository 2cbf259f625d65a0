package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// Store keeps every browser session. Initialized once at startup via
// InitSessionStore before any route runs.
var Store *session.Store

const (
	SessionUserIDKey = "user_id"
	ContextUserIDKey = "userID"

	// next_route remembers where to send the user after a login that was
	// forced by an authorization gate. Scoped to the session, so parallel
	// visitors cannot clobber each other's target.
	SessionNextRouteKey = "next_route"
)

// InitSessionStore configures the cookie session store. The lifetime is the
// absolute idle window: every handled request slides it forward, and a
// session that outlives it disappears from the store entirely.
func InitSessionStore(lifetime time.Duration) {
	if lifetime <= 0 {
		lifetime = 15 * time.Minute
	}
	Store = session.New(session.Config{
		KeyLookup:      "cookie:blog_session",
		Expiration:     lifetime,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
}

// RefreshSession runs before every route. A fresh session means the browser
// either has no cookie yet or its previous session passed the idle window;
// in both cases the user is told the session expired and is sent to the
// login page. Saving the session inside that branch sets the cookie, so the
// notice fires exactly once per transition. Established sessions are saved
// on every request to slide the idle window forward.
func RefreshSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := Store.Get(c)
		if err != nil {
			return err
		}

		if sess.Fresh() {
			SetFlash(sess, FlashWarning, "User session has expired. Please login again.")
			if err := sess.Save(); err != nil {
				return err
			}
			return c.Redirect("/login")
		}

		if id, ok := sess.Get(SessionUserIDKey).(uint); ok {
			c.Locals(ContextUserIDKey, id)
		}

		if err := sess.Save(); err != nil {
			return err
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated identity for this request, if any.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(ContextUserIDKey).(uint)
	return id, ok
}

// Authenticate records the user as the session's identity.
func Authenticate(c *fiber.Ctx, sess *session.Session, userID uint) {
	sess.Set(SessionUserIDKey, userID)
	c.Locals(ContextUserIDKey, userID)
}

// ClearAuthentication logs the session out without destroying it, so flash
// messages and the idle window survive the logout.
func ClearAuthentication(c *fiber.Ctx, sess *session.Session) {
	sess.Delete(SessionUserIDKey)
	c.Locals(ContextUserIDKey, nil)
}
