package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/obiora789/My-Personal-Blog/middleware"
)

// About - GET /about
func (h *BlogHandler) About(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.render(c, sess, "about", PageData{Title: "About", Active: "about"})
}

// ShowContact - GET /contact
func (h *BlogHandler) ShowContact(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.render(c, sess, "contact", PageData{Title: "Contact", Active: "contact"})
}

// HandleContact - POST /contact
//
// The submission is mailed synchronously to the operator notification list;
// the response waits for the SMTP server. A delivery failure surfaces as a
// 500 rather than being dropped.
func (h *BlogHandler) HandleContact(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	name := strings.Title(strings.TrimSpace(c.FormValue("name")))
	email := strings.TrimSpace(c.FormValue("email"))
	phone := strings.TrimSpace(c.FormValue("phone"))
	message := c.FormValue("message")
	ref := uuid.NewString()

	subject := fmt.Sprintf("Notification from %s with email %s.", name, email)
	body := fmt.Sprintf(
		"Hello %s, %s has left you a message.\n"+
			"Details below:\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Mobile: %s\n"+
			"Message: %s\n"+
			"\n"+
			"Reference: %s\n",
		strings.Title(h.app.OwnerName), name, name, email, phone, message, ref)

	if err := h.notifier.Send(h.notify, subject, body); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}

	h.log.WithField("reference", ref).Info("contact message forwarded")
	middleware.SetFlash(sess, middleware.FlashSuccess, "Message sent successfully!")
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/contact")
}
