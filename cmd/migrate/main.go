package main

import (
	"log"

	"github.com/obiora789/My-Personal-Blog/config"
	"github.com/obiora789/My-Personal-Blog/models"
)

func main() {
	db := config.ConnectDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("migration completed")
}
