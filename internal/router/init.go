package router

import (
	"github.com/urbe-dev/urbe-backend/internal/application"
	"github.com/urbe-dev/urbe-backend/internal/container"
	pginfra "github.com/urbe-dev/urbe-backend/internal/infrastructure/postgres"
	handlers "github.com/urbe-dev/urbe-backend/internal/interface/http"
	"github.com/urbe-dev/urbe-backend/internal/router/modules"
)

// InitModules builds every feature's repository/service/handler chain from
// the container singletons and registers the modules with the registry.
// Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	petitions := pginfra.NewPetitionRepository(pool)
	projects := pginfra.NewProjectRepository(pool)
	profiles := pginfra.NewProfileRepository(pool)

	userSvc := application.NewUserService(
		users,
		container.GetJWT(),
		container.GetMailer(),
		container.GetGCS(),
		cfg.GCSBucket,
		logger,
		cfg.ResetURLBase,
	)
	petitionSvc := application.NewPetitionService(
		petitions,
		users,
		logger,
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESPetitionsIndex,
	)
	projectSvc := application.NewProjectService(projects, users, logger)
	profileSvc := application.NewProfileService(profiles, users, logger)

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, logger)))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, logger)))
	r.Add(modules.NewPetitionModule(handlers.NewPetitionHandler(petitionSvc, logger)))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(projectSvc, logger)))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profileSvc, logger)))
	r.Add(modules.NewLocationModule(handlers.NewLocationHandler()))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
