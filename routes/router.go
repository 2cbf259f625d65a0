package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/obiora789/My-Personal-Blog/handlers"
	"github.com/obiora789/My-Personal-Blog/middleware"
)

// Register wires every route. RefreshSession runs first on all of them,
// including login and register, so an expired session is noticed before any
// handler executes.
func Register(app *fiber.App, h *handlers.BlogHandler) {
	app.Use(middleware.RefreshSession())

	app.Get("/", h.Index)
	app.Get("/about", h.About)
	app.Get("/contact", h.ShowContact)
	app.Post("/contact", h.HandleContact)

	app.Get("/register", h.ShowRegister)
	app.Post("/register", h.HandleRegister)
	app.Get("/login", h.ShowLogin)
	app.Post("/login", h.HandleLogin)
	app.Get("/logout", h.Logout)

	app.Get("/forgot_pass", h.ShowForgotPassword)
	app.Post("/forgot_pass", h.HandleForgotPassword)
	app.Get("/verify", h.ShowVerifyCode)
	app.Post("/verify", h.HandleVerifyCode)
	app.Get("/change_pass", h.ShowChangePassword)
	app.Post("/change_pass", h.HandleChangePassword)

	app.Get("/post/:id", h.ShowPost)
	app.Post("/post/:id", h.HandleComment)

	requireLogin := middleware.RequireLogin()
	adminOnly := middleware.AdminOnly()
	app.Get("/new-post", requireLogin, adminOnly, h.ShowNewPost)
	app.Post("/new-post", requireLogin, adminOnly, h.HandleNewPost)
	app.Get("/edit-post/:id", requireLogin, adminOnly, h.ShowEditPost)
	app.Post("/edit-post/:id", requireLogin, adminOnly, h.HandleEditPost)
	app.Get("/delete/:id", requireLogin, adminOnly, h.DeletePost)
}
