package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/obiora789/My-Personal-Blog/middleware"
	"github.com/obiora789/My-Personal-Blog/models"
	"github.com/obiora789/My-Personal-Blog/utils"
)

// ShowRegister - GET /register
func (h *BlogHandler) ShowRegister(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.render(c, sess, "register", PageData{Title: "Register", Active: "register"})
}

// HandleRegister - POST /register
func (h *BlogHandler) HandleRegister(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	name := strings.Title(strings.TrimSpace(c.FormValue("name")))
	email := utils.NormalizeEmail(c.FormValue("email"))
	password := c.FormValue("password")

	var existing models.User
	err = h.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		middleware.SetFlash(sess, middleware.FlashError, "You have already signed up with that email, login instead!")
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if utils.PasswordInEmail(email, password) {
		middleware.SetFlash(sess, middleware.FlashWarning, "Invalid password provided!")
		return h.render(c, sess, "register", PageData{Title: "Register", Active: "register", Email: email})
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{Email: email, PasswordHash: hash, Name: name}
	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	middleware.Authenticate(c, sess, user.ID)
	middleware.SetFlash(sess, middleware.FlashSuccess, "Account created successfully!")
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/")
}

// ShowLogin - GET /login
//
// A next query parameter is remembered in the session so that a successful
// login, even after a failed attempt in between, lands where the visitor
// originally wanted to go.
func (h *BlogHandler) ShowLogin(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	if next := c.Query("next"); next != "" {
		sess.Set(middleware.SessionNextRouteKey, next)
	}
	return h.render(c, sess, "login", PageData{Title: "Login", Active: "login"})
}

// HandleLogin - POST /login
func (h *BlogHandler) HandleLogin(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	email := utils.NormalizeEmail(c.FormValue("email"))
	password := c.FormValue("password")

	var user models.User
	err = h.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.SetFlash(sess, middleware.FlashError, "This email does not exist, please try again.")
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	}
	if err != nil {
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		middleware.SetFlash(sess, middleware.FlashError, "Password incorrect, please try again.")
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	}

	middleware.Authenticate(c, sess, user.ID)
	middleware.SetFlash(sess, middleware.FlashInfo, "You were successfully logged in")

	target := "/"
	if next, ok := sess.Get(middleware.SessionNextRouteKey).(string); ok && next != "" {
		target = next
		sess.Delete(middleware.SessionNextRouteKey)
	}
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect(target)
}

// Logout - GET /logout
func (h *BlogHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	middleware.ClearAuthentication(c, sess)
	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/")
}
