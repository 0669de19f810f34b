package config

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "task-board-system.com/task-board-system/internal/models"
)

func NewDatabaseClient(dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	err = db.AutoMigrate(
		&model.Project{},
		&model.ProjectMember{},
		&model.Task{},
		&model.Note{},
		&model.Attachment{},
		&model.Notification{},
	)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	return db
}
