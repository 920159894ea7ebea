package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"redcreativa/internal/events"
	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
	"redcreativa/internal/models/request_models"
	"redcreativa/internal/repositories"
	"redcreativa/pkg/utils"
)

type (
	ProjectService  = ContentServiceInterface[db_models.Project, request_models.ProjectInput]
	ScriptService   = ContentServiceInterface[db_models.Script, request_models.ScriptInput]
	ResourceService = ContentServiceInterface[db_models.Resource, request_models.ResourceInput]
)

func NewProjectService(repo repositories.ContentRepository[db_models.Project]) ProjectService {
	return newContentService[db_models.Project, *db_models.Project, request_models.ProjectInput](repo, "project")
}

func NewScriptService(repo repositories.ContentRepository[db_models.Script]) ScriptService {
	return newContentService[db_models.Script, *db_models.Script, request_models.ScriptInput](repo, "script")
}

func NewResourceService(repo repositories.ContentRepository[db_models.Resource]) ResourceService {
	return newContentService[db_models.Resource, *db_models.Resource, request_models.ResourceInput](repo, "resource")
}

type TaskService interface {
	ContentServiceInterface[db_models.Task, request_models.TaskInput]
	// Move sets the board column and the position inside it.
	Move(ctx context.Context, ownerID, id uuid.UUID, status string, position int) (*db_models.Task, error)
}

type taskService struct {
	*ContentService[db_models.Task, *db_models.Task, request_models.TaskInput]
}

func NewTaskService(repo repositories.ContentRepository[db_models.Task]) TaskService {
	return &taskService{
		ContentService: newContentService[db_models.Task, *db_models.Task, request_models.TaskInput](repo, "task"),
	}
}

func (s *taskService) Move(ctx context.Context, ownerID, id uuid.UUID, status string, position int) (*db_models.Task, error) {
	if !db_models.TaskStatus(status).Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", utils.ErrInvalidInput, status)
	}
	if position < 0 {
		return nil, fmt.Errorf("%w: position must not be negative", utils.ErrInvalidInput)
	}

	task, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	task.Status = db_models.TaskStatus(status)
	task.Position = position
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, dbError(err)
	}
	return task, nil
}

const (
	maxEventRange  = 366 * 24 * time.Hour
	maxRangeEvents = 5000
	rangePageSize  = 500
)

type EventService interface {
	ContentServiceInterface[db_models.CalendarEvent, request_models.EventInput]
	// Range lists events starting in [from, to).
	Range(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]db_models.CalendarEvent, error)
}

type eventService struct {
	*ContentService[db_models.CalendarEvent, *db_models.CalendarEvent, request_models.EventInput]
}

func NewEventService(repo repositories.ContentRepository[db_models.CalendarEvent]) EventService {
	return &eventService{
		ContentService: newContentService[db_models.CalendarEvent, *db_models.CalendarEvent, request_models.EventInput](repo, "event"),
	}
}

func (s *eventService) Range(ctx context.Context, ownerID uuid.UUID, from, to time.Time) ([]db_models.CalendarEvent, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: to must be after from", utils.ErrInvalidInput)
	}
	if to.Sub(from) > maxEventRange {
		return nil, fmt.Errorf("%w: range must not exceed 366 days", utils.ErrInvalidInput)
	}

	items := []db_models.CalendarEvent{}
	for page := 1; ; page++ {
		batch, total, err := s.repo.List(ctx, ownerID, repositories.ListQuery{
			SortBy:   "starts_at",
			Page:     page,
			PageSize: rangePageSize,
			From:     from.UTC(),
			To:       to.UTC(),
		})
		if err != nil {
			return nil, dbError(err)
		}
		if total > maxRangeEvents {
			return nil, fmt.Errorf("%w: range holds %d events, at most %d can be listed at once", utils.ErrInvalidInput, total, maxRangeEvents)
		}
		items = append(items, batch...)
		if len(batch) < rangePageSize || int64(len(items)) >= total {
			return items, nil
		}
	}
}

type PostService interface {
	ContentServiceInterface[db_models.BlogPost, request_models.PostInput]
	Publish(ctx context.Context, ownerID, id uuid.UUID) (*db_models.BlogPost, error)
}

type postService struct {
	*ContentService[db_models.BlogPost, *db_models.BlogPost, request_models.PostInput]
	posts     repositories.PostRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewPostService(repo repositories.PostRepository, publisher events.Publisher) PostService {
	s := &postService{
		ContentService: newContentService[db_models.BlogPost, *db_models.BlogPost, request_models.PostInput](repo, "post"),
		posts:          repo,
		publisher:      publisher,
		now:            time.Now,
	}
	s.beforeSave = s.prepare
	return s
}

// prepare keeps the slug unique per owner and stamps PublishedAt the first
// time a post is published.
func (s *postService) prepare(ctx context.Context, ownerID uuid.UUID, post, prev *db_models.BlogPost) error {
	if prev == nil || prev.Title != post.Title || post.Slug == "" {
		slug, err := s.uniqueSlug(ctx, ownerID, post.Title, post.ID)
		if err != nil {
			return err
		}
		post.Slug = slug
	}
	if post.Status == db_models.PostPublished && post.PublishedAt == nil {
		now := s.now().UTC()
		post.PublishedAt = &now
	}
	return nil
}

func (s *postService) uniqueSlug(ctx context.Context, ownerID uuid.UUID, title string, exceptID uuid.UUID) (string, error) {
	base := utils.Slugify(title)
	slug := base
	for i := 2; ; i++ {
		taken, err := s.posts.SlugTaken(ctx, ownerID, slug, exceptID)
		if err != nil {
			return "", dbError(err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *postService) Publish(ctx context.Context, ownerID, id uuid.UUID) (*db_models.BlogPost, error) {
	post, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if post.Status == db_models.PostPublished {
		return post, nil
	}

	now := s.now().UTC()
	post.Status = db_models.PostPublished
	post.PublishedAt = &now
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, dbError(err)
	}

	if err := s.publisher.Publish(ctx, events.PostPublished, map[string]any{
		"post_id": post.ID, "owner_id": ownerID, "slug": post.Slug,
	}); err != nil {
		logger.Warn("publish post.published failed", zap.String("post_id", post.ID.String()), zap.Error(err))
	}
	return post, nil
}

const (
	defaultSimilarLimit = 5
	maxSimilarLimit     = 20
)

type PromptService interface {
	ContentServiceInterface[db_models.Prompt, request_models.PromptInput]
	Similar(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]db_models.Prompt, error)
	ToggleFavorite(ctx context.Context, ownerID, id uuid.UUID) (*db_models.Prompt, error)
}

type promptService struct {
	*ContentService[db_models.Prompt, *db_models.Prompt, request_models.PromptInput]
	prompts repositories.PromptRepository
}

func NewPromptService(repo repositories.PromptRepository) PromptService {
	s := &promptService{
		ContentService: newContentService[db_models.Prompt, *db_models.Prompt, request_models.PromptInput](repo, "prompt"),
		prompts:        repo,
	}
	s.beforeSave = func(_ context.Context, _ uuid.UUID, p, _ *db_models.Prompt) error {
		p.Embedding = PromptEmbedding(p)
		return nil
	}
	return s
}

func PromptEmbedding(p *db_models.Prompt) pgvector.Vector {
	text := p.Title + " " + p.Content + " " + strings.Join(p.Tags, " ")
	return utils.TextToVector(text, db_models.PromptEmbeddingDimensions)
}

func (s *promptService) Similar(ctx context.Context, ownerID uuid.UUID, query string, limit int) ([]db_models.Prompt, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", utils.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}

	vector := utils.TextToVector(query, db_models.PromptEmbeddingDimensions)
	prompts, err := s.prompts.Similar(ctx, ownerID, vector, limit)
	if err != nil {
		return nil, dbError(err)
	}
	if prompts == nil {
		prompts = []db_models.Prompt{}
	}
	return prompts, nil
}

func (s *promptService) ToggleFavorite(ctx context.Context, ownerID, id uuid.UUID) (*db_models.Prompt, error) {
	prompt, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.prompts.SetFavorite(ctx, ownerID, id, !prompt.Favorite)
	if err != nil {
		return nil, dbError(err)
	}
	if !ok {
		return nil, fmt.Errorf("prompt %s: %w", id, utils.ErrRecordNotFound)
	}
	prompt.Favorite = !prompt.Favorite
	return prompt, nil
}
