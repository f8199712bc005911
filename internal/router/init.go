package router

import (
	userapp "github.com/rizqidamar/timely/internal/application"
	"github.com/rizqidamar/timely/internal/container"
	pginfra "github.com/rizqidamar/timely/internal/infrastructure/postgres"
	handlers "github.com/rizqidamar/timely/internal/interface/http"
	"github.com/rizqidamar/timely/internal/router/modules"
)

func buildUserService() *userapp.Service {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	return userapp.NewService(
		repo,
		container.GetAuth(),
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetES(),
		container.GetLogger(),
		userapp.Options{
			AccessTokenMinutes:  cfg.AccessTokenMinutes,
			RefreshTokenMinutes: cfg.RefreshTokenMinutes,
			ESUsersIndex:        cfg.ESUsersIndex,
			VerifyEmailURL:      cfg.VerifyEmailURL,
			MailSendEnabled:     cfg.MailSendEnabled,
		},
	)
}

// InitModules initializes all application modules and registers them with the router registry.
// Called once during application startup.
func InitModules(r *Registry) {
	svc := buildUserService()
	logger := container.GetLogger()

	userHandler := handlers.NewUserHandler(svc, logger)
	authHandler := handlers.NewAuthHandler(svc, logger)
	healthHandler := handlers.NewHealthHandler(container.GetConfig())

	r.Add(modules.NewUserModule(userHandler, container.GetAuth()))
	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewHealthModule(healthHandler))
}
