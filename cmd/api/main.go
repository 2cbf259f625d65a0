package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/obiora789/My-Personal-Blog/config"
	"github.com/obiora789/My-Personal-Blog/handlers"
	"github.com/obiora789/My-Personal-Blog/middleware"
	"github.com/obiora789/My-Personal-Blog/routes"
	"github.com/obiora789/My-Personal-Blog/utils/mailer"
)

func main() {
	log := logrus.New()
	if os.Getenv("APP_ENV") == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if err := config.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db := config.ConnectDB()
	log.Info("connected to database")

	appCfg := config.LoadAppConfig()
	emailCfg := config.LoadEmailConfig()

	middleware.InitSessionStore(appCfg.SessionLifetime)

	h := handlers.New(db, mailer.NewClient(emailCfg), appCfg, emailCfg, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, h)

	log.WithField("addr", appCfg.Addr).Info("blog listening")
	if err := app.Listen(appCfg.Addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
