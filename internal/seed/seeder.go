package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"redcreativa/internal/events"
	"redcreativa/internal/infra"
	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
	"redcreativa/internal/models/request_models"
	"redcreativa/internal/repositories"
	"redcreativa/internal/services"
	"redcreativa/pkg/utils"
)

// Result counts what one feature table went through.
type Result struct {
	Kind    string
	Created int
	Skipped int
	Deleted int64
}

// Seeder writes fixtures through the regular services, so slugs, prompt
// embeddings and thumbnail renders are produced exactly as for API calls.
type Seeder struct {
	db        *gorm.DB
	publisher events.Publisher
	now       func() time.Time
}

func NewSeeder(db *gorm.DB, publisher events.Publisher) *Seeder {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Seeder{db: db, publisher: publisher, now: time.Now}
}

// ResolveOwner returns the profile that will own the fixtures. The demo
// address gets its identity and profile created on the fly; any other address
// must belong to a user who signed in at least once.
func (s *Seeder) ResolveOwner(ctx context.Context, email string) (*db_models.Profile, error) {
	email = services.NormalizeEmail(email)
	if email == "" || email == db_models.DemoEmail {
		return s.ensureDemoOwner(ctx)
	}

	profile, err := repositories.NewProfileRepository(s.db).FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find owner %s: %w", email, err)
	}
	if profile == nil {
		return nil, fmt.Errorf("no profile for %s, sign in once before seeding: %w", email, utils.ErrRecordNotFound)
	}
	return profile, nil
}

func (s *Seeder) ensureDemoOwner(ctx context.Context) (*db_models.Profile, error) {
	identities := repositories.NewIdentityRepository(s.db)
	identity, err := identities.FindByID(ctx, db_models.DemoUserID)
	if err != nil {
		return nil, fmt.Errorf("find demo identity: %w", err)
	}
	if identity == nil {
		// Nobody can sign in with this password; demo mode never needs one.
		secret, err := utils.GenerateSecureToken(32)
		if err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(secret)
		if err != nil {
			return nil, err
		}
		confirmed := s.now().Unix()
		identity = &db_models.Identity{
			BaseModel:        db_models.BaseModel{ID: db_models.DemoUserID},
			Email:            db_models.DemoEmail,
			PasswordHash:     hash,
			Name:             "Demo Creator",
			EmailConfirmedAt: &confirmed,
		}
		if err := identities.Create(ctx, identity); err != nil {
			return nil, fmt.Errorf("create demo identity: %w", err)
		}
		logger.Info("created demo identity", zap.String("id", identity.ID.String()))
	}

	profile := db_models.NewDemoProfile("")
	if _, err := repositories.NewProfileRepository(s.db).InsertIfAbsent(ctx, profile); err != nil {
		return nil, fmt.Errorf("create demo profile: %w", err)
	}
	return profile, nil
}

type titleLookup func(ctx context.Context, ownerID uuid.UUID, title string) (bool, error)

// seedItems creates every item whose title the owner does not have yet.
func seedItems[T any, I any](
	ctx context.Context,
	kind string,
	ownerID uuid.UUID,
	items []I,
	title func(I) string,
	exists titleLookup,
	create func(ctx context.Context, ownerID uuid.UUID, in I) (*T, error),
) (Result, error) {
	res := Result{Kind: kind}
	for _, in := range items {
		found, err := exists(ctx, ownerID, title(in))
		if err != nil {
			return res, fmt.Errorf("%s %q: %w", kind, title(in), err)
		}
		if found {
			res.Skipped++
			continue
		}
		if _, err := create(ctx, ownerID, in); err != nil {
			return res, fmt.Errorf("%s %q: %w", kind, title(in), err)
		}
		res.Created++
	}
	return res, nil
}

// Seed inserts the fixtures for ownerID. Running it twice creates nothing new.
func (s *Seeder) Seed(ctx context.Context, ownerID uuid.UUID, f *Fixtures) ([]Result, error) {
	f.Shift(s.now())

	projectRepo := repositories.NewContentRepository[db_models.Project](s.db, repositories.ProjectTable)
	taskRepo := repositories.NewContentRepository[db_models.Task](s.db, repositories.TaskTable)
	eventRepo := repositories.NewContentRepository[db_models.CalendarEvent](s.db, repositories.EventTable)
	postRepo := repositories.NewPostRepository(s.db)
	promptRepo := repositories.NewPromptRepository(s.db)
	scriptRepo := repositories.NewContentRepository[db_models.Script](s.db, repositories.ScriptTable)
	resourceRepo := repositories.NewContentRepository[db_models.Resource](s.db, repositories.ResourceTable)
	thumbnailRepo := repositories.NewContentRepository[db_models.Thumbnail](s.db, repositories.ThumbnailTable)

	steps := []func() (Result, error){
		func() (Result, error) {
			return seedItems(ctx, "projects", ownerID, f.Projects,
				func(in request_models.ProjectInput) string { return in.Title },
				projectRepo.ExistsByTitle, services.NewProjectService(projectRepo).Create)
		},
		func() (Result, error) {
			// Project ids are resolved after the projects exist.
			linked, err := s.linkTasks(ctx, ownerID, f.Tasks)
			if err != nil {
				return Result{Kind: "tasks"}, err
			}
			return seedItems(ctx, "tasks", ownerID, linked,
				func(in request_models.TaskInput) string { return in.Title },
				taskRepo.ExistsByTitle, services.NewTaskService(taskRepo).Create)
		},
		func() (Result, error) {
			return seedItems(ctx, "events", ownerID, f.Events,
				func(in request_models.EventInput) string { return in.Title },
				eventRepo.ExistsByTitle, services.NewEventService(eventRepo).Create)
		},
		func() (Result, error) {
			return seedItems(ctx, "posts", ownerID, f.Posts,
				func(in request_models.PostInput) string { return in.Title },
				postRepo.ExistsByTitle, services.NewPostService(postRepo, s.publisher).Create)
		},
		func() (Result, error) {
			return seedItems(ctx, "prompts", ownerID, f.Prompts,
				func(in request_models.PromptInput) string { return in.Title },
				promptRepo.ExistsByTitle, services.NewPromptService(promptRepo).Create)
		},
		func() (Result, error) {
			return seedItems(ctx, "scripts", ownerID, f.Scripts,
				func(in request_models.ScriptInput) string { return in.Title },
				scriptRepo.ExistsByTitle, services.NewScriptService(scriptRepo).Create)
		},
		func() (Result, error) {
			return seedItems(ctx, "resources", ownerID, f.Resources,
				func(in request_models.ResourceInput) string { return in.Title },
				resourceRepo.ExistsByTitle, services.NewResourceService(resourceRepo).Create)
		},
		func() (Result, error) {
			return seedItems(ctx, "thumbnails", ownerID, f.Thumbnails,
				func(in request_models.ThumbnailInput) string { return in.Title },
				thumbnailRepo.ExistsByTitle, services.NewThumbnailService(thumbnailRepo).Create)
		},
	}

	results := make([]Result, 0, len(steps))
	for _, step := range steps {
		res, err := step()
		results = append(results, res)
		if err != nil {
			return results, err
		}
		logger.Debug("seeded", zap.String("kind", res.Kind), zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
	}
	return results, nil
}

// linkTasks resolves each task's project title to the owner's project id.
func (s *Seeder) linkTasks(ctx context.Context, ownerID uuid.UUID, fixtures []TaskFixture) ([]request_models.TaskInput, error) {
	out := make([]request_models.TaskInput, len(fixtures))
	for i, t := range fixtures {
		out[i] = t.TaskInput
		if t.Project == "" {
			continue
		}
		var project db_models.Project
		err := s.db.WithContext(ctx).
			Select("id").
			Where("owner_id = ? AND title = ?", ownerID, t.Project).
			First(&project).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %q: unknown project %q: %w", t.Title, t.Project, utils.ErrInvalidInput)
		}
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", t.Title, err)
		}
		id := project.ID
		out[i].ProjectID = &id
	}
	return out, nil
}

type clearer interface {
	DeleteAll(ctx context.Context) (int64, error)
}

// Clear hard deletes every row of the feature tables, for all owners, in one
// transaction.
func (s *Seeder) Clear(ctx context.Context) (results []Result, err error) {
	tx := infra.StartTransaction(s.db.WithContext(ctx))
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() { infra.ReleaseTransaction(tx, err) }()

	// Tasks reference projects, so they go first.
	tables := []struct {
		kind string
		repo clearer
	}{
		{"tasks", repositories.NewContentRepository[db_models.Task](tx, repositories.TaskTable)},
		{"projects", repositories.NewContentRepository[db_models.Project](tx, repositories.ProjectTable)},
		{"events", repositories.NewContentRepository[db_models.CalendarEvent](tx, repositories.EventTable)},
		{"posts", repositories.NewContentRepository[db_models.BlogPost](tx, repositories.PostTable)},
		{"prompts", repositories.NewContentRepository[db_models.Prompt](tx, repositories.PromptTable)},
		{"scripts", repositories.NewContentRepository[db_models.Script](tx, repositories.ScriptTable)},
		{"resources", repositories.NewContentRepository[db_models.Resource](tx, repositories.ResourceTable)},
		{"thumbnails", repositories.NewContentRepository[db_models.Thumbnail](tx, repositories.ThumbnailTable)},
	}

	for _, t := range tables {
		var n int64
		n, err = t.repo.DeleteAll(ctx)
		if err != nil {
			return results, fmt.Errorf("clear %s: %w", t.kind, err)
		}
		results = append(results, Result{Kind: t.kind, Deleted: n})
	}
	return results, nil
}

// Reset clears every feature table, then seeds.
func (s *Seeder) Reset(ctx context.Context, ownerID uuid.UUID, f *Fixtures) ([]Result, error) {
	cleared, err := s.Clear(ctx)
	if err != nil {
		return cleared, err
	}
	seeded, err := s.Seed(ctx, ownerID, f)
	for i := range seeded {
		for _, c := range cleared {
			if c.Kind == seeded[i].Kind {
				seeded[i].Deleted = c.Deleted
			}
		}
	}
	return seeded, err
}
