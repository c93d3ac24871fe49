// File: cmd/server/providers.go
package main

import (
	"log"
	"time"

	"github.com/RulerDevansh/SecretSanta/internal/platform/database"
	"github.com/RulerDevansh/SecretSanta/internal/wish"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func provideRandomSource() wish.RandomSource {
	return wish.NewRandomSource(time.Now().UnixNano())
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
