package content_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"redcreativa/internal/api/controllers"
	"redcreativa/internal/events"
	"redcreativa/internal/models/db_models"
	"redcreativa/internal/repositories"
	"redcreativa/internal/services"
)

var Module = fx.Options(
	fx.Provide(
		provideProjectRepo,
		provideTaskRepo,
		provideEventRepo,
		provideScriptRepo,
		provideResourceRepo,
		provideThumbnailRepo,
		repositories.NewPostRepository,
		repositories.NewPromptRepository,
	),
	fx.Provide(
		services.NewProjectService,
		services.NewTaskService,
		services.NewEventService,
		services.NewScriptService,
		services.NewResourceService,
		services.NewThumbnailService,
		providePostService,
		services.NewPromptService,
	),
	fx.Provide(
		controllers.NewProjectController,
		controllers.NewTaskController,
		controllers.NewEventController,
		controllers.NewPostController,
		controllers.NewPromptController,
		controllers.NewScriptController,
		controllers.NewResourceController,
		controllers.NewThumbnailController,
	),
)

func provideProjectRepo(db *gorm.DB) repositories.ContentRepository[db_models.Project] {
	return repositories.NewContentRepository[db_models.Project](db, repositories.ProjectTable)
}

func provideTaskRepo(db *gorm.DB) repositories.ContentRepository[db_models.Task] {
	return repositories.NewContentRepository[db_models.Task](db, repositories.TaskTable)
}

func provideEventRepo(db *gorm.DB) repositories.ContentRepository[db_models.CalendarEvent] {
	return repositories.NewContentRepository[db_models.CalendarEvent](db, repositories.EventTable)
}

func provideScriptRepo(db *gorm.DB) repositories.ContentRepository[db_models.Script] {
	return repositories.NewContentRepository[db_models.Script](db, repositories.ScriptTable)
}

func provideResourceRepo(db *gorm.DB) repositories.ContentRepository[db_models.Resource] {
	return repositories.NewContentRepository[db_models.Resource](db, repositories.ResourceTable)
}

func provideThumbnailRepo(db *gorm.DB) repositories.ContentRepository[db_models.Thumbnail] {
	return repositories.NewContentRepository[db_models.Thumbnail](db, repositories.ThumbnailTable)
}

func providePostService(repo repositories.PostRepository, publisher events.Publisher) services.PostService {
	return services.NewPostService(repo, publisher)
}
