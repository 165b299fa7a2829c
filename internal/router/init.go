package router

import (
	"github.com/devarta/taskboard/internal/application"
	"github.com/devarta/taskboard/internal/container"
	pginfra "github.com/devarta/taskboard/internal/infrastructure/postgres"
	handlers "github.com/devarta/taskboard/internal/interface/http"
	"github.com/devarta/taskboard/internal/router/modules"
)

// InitModules builds every feature module from the container singletons and
// registers it with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	projects := pginfra.NewProjectRepository(pool)
	tasks := pginfra.NewTaskRepository(pool)

	notifier := application.NewNotifier(
		container.GetRabbitPub(),
		logger,
		application.FailureMode(cfg.NotifyFailureMode),
		cfg.NotifyStatusChange,
		cfg.NotifyTaskUpdated,
	)

	userSvc := application.NewUserService(users, container.GetJWT(), container.GetRedis(), logger)
	projectSvc := application.NewProjectService(projects, tasks, logger)
	taskSvc := application.NewTaskService(tasks, projects, users, notifier, logger, container.GetES(), cfg.ESTasksIndex)

	userHandler := handlers.NewUserHandler(userSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	projectHandler := handlers.NewProjectHandler(projectSvc, logger)
	taskHandler := handlers.NewTaskHandler(taskSvc, logger)
	notificationHandler := handlers.NewNotificationHandler(container.GetRabbitPub(), logger, cfg.MailSendEnabled)

	r.Add(modules.NewAuthModule(userHandler, container.GetJWT()))
	r.Add(modules.NewProjectModule(projectHandler, container.GetJWT()))
	r.Add(modules.NewTaskModule(taskHandler, container.GetJWT()))
	r.Add(modules.NewNotificationModule(notificationHandler, container.GetJWT()))
}
