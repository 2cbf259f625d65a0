package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/obiora789/My-Personal-Blog/config"
	"github.com/obiora789/My-Personal-Blog/middleware"
	"github.com/obiora789/My-Personal-Blog/models"
	"github.com/obiora789/My-Personal-Blog/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// BlogHandler serves every page of the blog.
type BlogHandler struct {
	db        *gorm.DB
	notifier  services.Notifier
	resets    *services.ResetService
	app       config.AppConfig
	notify    []string
	log       *logrus.Logger
	templates map[string]*template.Template
}

// PageData is what every template receives.
type PageData struct {
	Title         string
	Active        string
	Owner         string
	Year          int
	User          *models.User
	Flash         string
	FlashCategory string

	Posts       []models.Post
	Post        *models.Post
	Comments    []models.Comment
	Form        PostFormData
	IsEdit      bool
	Email       string
	Gravatar    string
	CurrentDate string
}

// PostFormData carries the new/edit post form between render and submit.
type PostFormData struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

func New(db *gorm.DB, notifier services.Notifier, appCfg config.AppConfig, emailCfg config.EmailConfig, log *logrus.Logger) *BlogHandler {
	templates := make(map[string]*template.Template)
	pages := []string{
		"index", "about", "contact",
		"login", "register",
		"forgot_password", "verify_code", "change_password",
		"post", "make_post",
	}
	for _, name := range pages {
		templates[name] = template.Must(template.ParseFS(templateFS,
			"templates/base.html", "templates/"+name+".html"))
	}

	return &BlogHandler{
		db:        db,
		notifier:  notifier,
		resets:    services.NewResetService(db, notifier, emailCfg.NotifyAddresses, appCfg.OwnerName),
		app:       appCfg,
		notify:    emailCfg.NotifyAddresses,
		log:       log,
		templates: templates,
	}
}

// render fills in the ambient page data, pops the pending flash and writes
// the page. It saves the session, so handlers must not save it again after
// calling render.
func (h *BlogHandler) render(c *fiber.Ctx, sess *session.Session, name string, data PageData) error {
	t, ok := h.templates[name]
	if !ok {
		h.log.WithField("template", name).Error("template not found")
		return fiber.ErrInternalServerError
	}

	data.Owner = h.app.OwnerName
	data.Year = time.Now().Year()
	if data.User == nil {
		data.User = h.currentUser(c)
	}
	data.FlashCategory, data.Flash = middleware.PopFlash(sess)
	if err := sess.Save(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		h.log.WithField("template", name).WithError(err).Error("template error")
		return fiber.ErrInternalServerError
	}

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(buf.Bytes())
}

// currentUser loads the authenticated user, or nil for anonymous visitors.
func (h *BlogHandler) currentUser(c *fiber.Ctx) *models.User {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil
	}
	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		return nil
	}
	return &user
}

// session returns the request's session. RefreshSession already established
// it, so errors here mean the store itself is broken.
func (h *BlogHandler) session(c *fiber.Ctx) (*session.Session, error) {
	return middleware.Store.Get(c)
}

// ErrorHandler logs server-side failures and answers with the bare status
// text. Validation and flow errors never reach it; they are flashed and
// redirected by the handlers themselves.
func ErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).WithError(err).Error("request failed")
		}
		return c.Status(code).SendString(fiberutils.StatusMessage(code))
	}
}
