package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/obiora789/My-Personal-Blog/middleware"
	"github.com/obiora789/My-Personal-Blog/services"
)

// ShowForgotPassword - GET /forgot_pass
func (h *BlogHandler) ShowForgotPassword(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.render(c, sess, "forgot_password", PageData{Title: "Forgot Password"})
}

// HandleForgotPassword - POST /forgot_pass
//
// A known email gets a one-time code mailed to it and moves the flow to the
// verification step. Delivery failures propagate to the error handler; they
// are infrastructure faults, not user mistakes.
func (h *BlogHandler) HandleForgotPassword(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	err = h.resets.Request(sess, c.FormValue("email"))
	if errors.Is(err, services.ErrEmailNotFound) {
		middleware.SetFlash(sess, middleware.FlashError, "The email you provided does not exist in the database")
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	}
	if err != nil {
		return err
	}

	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/verify")
}

// ShowVerifyCode - GET /verify
func (h *BlogHandler) ShowVerifyCode(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.render(c, sess, "verify_code", PageData{Title: "Verify Password"})
}

// HandleVerifyCode - POST /verify
func (h *BlogHandler) HandleVerifyCode(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	err = h.resets.Verify(sess, c.FormValue("code"))
	switch {
	case errors.Is(err, services.ErrCodeMismatch):
		middleware.SetFlash(sess, middleware.FlashError, "The code you provided is incorrect")
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	case errors.Is(err, services.ErrNoResetInProgress):
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	case err != nil:
		return err
	}

	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/change_pass")
}

// ShowChangePassword - GET /change_pass
func (h *BlogHandler) ShowChangePassword(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.render(c, sess, "change_password", PageData{Title: "Change Password"})
}

// HandleChangePassword - POST /change_pass
func (h *BlogHandler) HandleChangePassword(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	user, err := h.resets.ReplacePassword(sess, c.FormValue("password"))
	switch {
	case errors.Is(err, services.ErrWeakPassword):
		middleware.SetFlash(sess, middleware.FlashWarning, "Invalid password provided!")
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	case errors.Is(err, services.ErrNotVerified):
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	case err != nil:
		return err
	}

	middleware.Authenticate(c, sess, user.ID)
	middleware.SetFlash(sess, middleware.FlashSuccess, "Password changed successfully!")
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/")
}
