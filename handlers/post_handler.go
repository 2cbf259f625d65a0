package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/obiora789/My-Personal-Blog/middleware"
	"github.com/obiora789/My-Personal-Blog/models"
	"github.com/obiora789/My-Personal-Blog/utils"
)

// Index - GET /
func (h *BlogHandler) Index(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	var posts []models.Post
	if err := h.db.Preload("Author").Order("date").Find(&posts).Error; err != nil {
		return err
	}

	return h.render(c, sess, "index", PageData{Title: "Home", Active: "home", Posts: posts})
}

// ShowPost - GET /post/:id
func (h *BlogHandler) ShowPost(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	post, err := h.loadPost(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Redirect("/")
		}
		return err
	}

	var comments []models.Comment
	if err := h.db.Where("post_id = ?", post.ID).Preload("Commenter").Order("date_time").Find(&comments).Error; err != nil {
		return err
	}

	data := PageData{
		Title:       post.Title,
		Post:        post,
		Comments:    comments,
		CurrentDate: time.Now().Format("02 Jan 2006"),
	}
	if user := h.currentUser(c); user != nil {
		data.User = user
		data.Gravatar = utils.GravatarURL(user.Email)
	}
	return h.render(c, sess, "post", data)
}

// HandleComment - POST /post/:id
//
// Comment submission needs a logged-in user; anonymous visitors are flashed
// towards the login page instead of getting a hard failure.
func (h *BlogHandler) HandleComment(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	post, err := h.loadPost(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Redirect("/")
		}
		return err
	}

	user := h.currentUser(c)
	if user == nil {
		middleware.SetFlash(sess, middleware.FlashError, "Kindly login to post your comment")
		if err := sess.Save(); err != nil {
			return err
		}
		return c.Redirect("/login")
	}

	comment := models.Comment{
		CommenterID: user.ID,
		PostID:      post.ID,
		Text:        c.FormValue("comment"),
		ImageURL:    utils.GravatarURL(user.Email),
		DateTime:    time.Now(),
	}
	if err := h.db.Create(&comment).Error; err != nil {
		return err
	}

	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/post/" + c.Params("id"))
}

// ShowNewPost - GET /new-post (admin)
func (h *BlogHandler) ShowNewPost(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}
	return h.render(c, sess, "make_post", PageData{Title: "New Post", IsEdit: false})
}

// HandleNewPost - POST /new-post (admin)
func (h *BlogHandler) HandleNewPost(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	form := PostFormData{
		Title:    strings.TrimSpace(c.FormValue("title")),
		Subtitle: strings.TrimSpace(c.FormValue("subtitle")),
		ImgURL:   strings.TrimSpace(c.FormValue("img_url")),
		Body:     c.FormValue("body"),
	}

	var existing models.Post
	err = h.db.Where("title = ?", form.Title).First(&existing).Error
	if err == nil {
		middleware.SetFlash(sess, middleware.FlashError, "A post with that title already exists.")
		return h.render(c, sess, "make_post", PageData{Title: "New Post", IsEdit: false, Form: form})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	userID, _ := middleware.CurrentUserID(c)
	post := models.Post{
		AuthorID: userID,
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
		Date:     time.Now(),
	}
	if err := h.db.Create(&post).Error; err != nil {
		return err
	}

	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/")
}

// ShowEditPost - GET /edit-post/:id (admin)
func (h *BlogHandler) ShowEditPost(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	post, err := h.loadPost(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Redirect("/")
		}
		return err
	}

	form := PostFormData{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
	return h.render(c, sess, "make_post", PageData{Title: "Edit Post", IsEdit: true, Post: post, Form: form})
}

// HandleEditPost - POST /edit-post/:id (admin)
//
// The title is read-only once published. The remaining fields are updated in
// place inside one transaction, so the post id, its creation date and every
// comment under it survive the edit.
func (h *BlogHandler) HandleEditPost(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	post, err := h.loadPost(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Redirect("/")
		}
		return err
	}

	now := time.Now()
	err = h.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(post).Updates(map[string]interface{}{
			"subtitle":  strings.TrimSpace(c.FormValue("subtitle")),
			"img_url":   strings.TrimSpace(c.FormValue("img_url")),
			"body":      c.FormValue("body"),
			"last_edit": &now,
		}).Error
	})
	if err != nil {
		return err
	}

	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/post/" + c.Params("id"))
}

// DeletePost - GET /delete/:id (admin)
//
// Comments fall with their post; both deletes run in one transaction so no
// orphaned comment can survive a partial failure.
func (h *BlogHandler) DeletePost(c *fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return err
	}

	post, err := h.loadPost(c)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Redirect("/")
		}
		return err
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		return err
	}

	if err := sess.Save(); err != nil {
		return err
	}
	return c.Redirect("/")
}

func (h *BlogHandler) loadPost(c *fiber.Ctx) (*models.Post, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, gorm.ErrRecordNotFound
	}
	var post models.Post
	if err := h.db.Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}
