// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"github.com/RulerDevansh/SecretSanta/internal/app"
	"github.com/RulerDevansh/SecretSanta/internal/auth"
	"github.com/RulerDevansh/SecretSanta/internal/config"
	"github.com/RulerDevansh/SecretSanta/internal/group"
	"github.com/RulerDevansh/SecretSanta/internal/jobs"
	"github.com/RulerDevansh/SecretSanta/internal/mailer"
	"github.com/RulerDevansh/SecretSanta/internal/platform/database"
	"github.com/RulerDevansh/SecretSanta/internal/platform/logger"
	"github.com/RulerDevansh/SecretSanta/internal/shared"
	"github.com/RulerDevansh/SecretSanta/internal/user"
	"github.com/RulerDevansh/SecretSanta/internal/wish"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		provideCleanup,

		// Auth
		auth.NewJWTService,
		auth.NewGoogleVerifier,

		// Core User Services
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),

		// Groups and Wishes
		group.NewGORMRepository,
		group.NewService,
		wish.NewGORMRepository,
		wire.Bind(new(group.WishStore), new(wish.Repository)),
		provideRandomSource,
		wish.NewService,

		// Mail
		mailer.NewMailer,

		// Handlers
		auth.NewHandler,
		user.NewHandler,
		group.NewHandler,
		wish.NewHandler,
		mailer.NewHandler,

		// Jobs
		jobs.NewWishReminderJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
