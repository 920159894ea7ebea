package request_models

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"redcreativa/internal/models/db_models"
	"redcreativa/pkg/utils"
)

const maxTags = 20

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", utils.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("title is required")
	}
	if len(title) > 200 {
		return invalid("title must be at most 200 characters")
	}
	return nil
}

func normalizeTags(tags []string) pq.StringArray {
	seen := make(map[string]struct{}, len(tags))
	out := make(pq.StringArray, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func checkTags(tags []string) error {
	if len(tags) > maxTags {
		return invalid("at most %d tags allowed", maxTags)
	}
	return nil
}

type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Color       string   `json:"color"`
	Tags        []string `json:"tags"`
}

func (in ProjectInput) Validate() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	if in.Status != "" && !db_models.ProjectStatus(in.Status).Valid() {
		return invalid("unknown project status %q", in.Status)
	}
	if in.Color != "" {
		if _, err := utils.ParseHexColor(in.Color); err != nil {
			return invalid("color: %v", err)
		}
	}
	return checkTags(in.Tags)
}

func (in ProjectInput) ApplyTo(p *db_models.Project) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.Status = db_models.ProjectStatus(in.Status)
	if p.Status == "" {
		p.Status = db_models.ProjectActive
	}
	p.Color = in.Color
	p.Tags = normalizeTags(in.Tags)
}

type TaskInput struct {
	ProjectID   *uuid.UUID `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Position    int        `json:"position"`
	Tags        []string   `json:"tags"`
}

func (in TaskInput) Validate() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	if in.Status != "" && !db_models.TaskStatus(in.Status).Valid() {
		return invalid("unknown task status %q", in.Status)
	}
	if in.Priority != "" && !db_models.TaskPriority(in.Priority).Valid() {
		return invalid("unknown task priority %q", in.Priority)
	}
	if in.Position < 0 {
		return invalid("position must not be negative")
	}
	return checkTags(in.Tags)
}

func (in TaskInput) ApplyTo(t *db_models.Task) {
	t.ProjectID = in.ProjectID
	t.Title = strings.TrimSpace(in.Title)
	t.Description = in.Description
	t.Status = db_models.TaskStatus(in.Status)
	if t.Status == "" {
		t.Status = db_models.TaskTodo
	}
	t.Priority = db_models.TaskPriority(in.Priority)
	if t.Priority == "" {
		t.Priority = db_models.PriorityMedium
	}
	t.DueDate = in.DueDate
	t.Position = in.Position
	t.Tags = normalizeTags(in.Tags)
}

type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	AllDay      bool      `json:"all_day"`
	Location    string    `json:"location"`
	Tags        []string  `json:"tags"`
}

func (in EventInput) Validate() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	if in.Category != "" && !db_models.EventCategory(in.Category).Valid() {
		return invalid("unknown event category %q", in.Category)
	}
	if in.StartsAt.IsZero() {
		return invalid("starts_at is required")
	}
	if !in.EndsAt.IsZero() && in.EndsAt.Before(in.StartsAt) {
		return invalid("ends_at must not precede starts_at")
	}
	return checkTags(in.Tags)
}

func (in EventInput) ApplyTo(e *db_models.CalendarEvent) {
	e.Title = strings.TrimSpace(in.Title)
	e.Description = in.Description
	e.Category = db_models.EventCategory(in.Category)
	if e.Category == "" {
		e.Category = db_models.EventOther
	}
	e.StartsAt = in.StartsAt.UTC()
	e.EndsAt = in.EndsAt.UTC()
	if in.EndsAt.IsZero() {
		e.EndsAt = e.StartsAt.Add(time.Hour)
	}
	e.AllDay = in.AllDay
	e.Location = in.Location
	e.Tags = normalizeTags(in.Tags)
}

type PostInput struct {
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Content  string   `json:"content"`
	Status   string   `json:"status"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

func (in PostInput) Validate() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	if in.Status != "" && !db_models.PostStatus(in.Status).Valid() {
		return invalid("unknown post status %q", in.Status)
	}
	return checkTags(in.Tags)
}

// ApplyTo leaves Slug and PublishedAt to the post service.
func (in PostInput) ApplyTo(p *db_models.BlogPost) {
	p.Title = strings.TrimSpace(in.Title)
	p.Excerpt = in.Excerpt
	p.Content = in.Content
	p.Status = db_models.PostStatus(in.Status)
	if p.Status == "" {
		p.Status = db_models.PostDraft
	}
	p.Category = strings.TrimSpace(in.Category)
	p.Tags = normalizeTags(in.Tags)
}

type PromptInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Favorite bool     `json:"favorite"`
}

func (in PromptInput) Validate() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	if strings.TrimSpace(in.Content) == "" {
		return invalid("content is required")
	}
	if in.Category != "" && !db_models.PromptCategory(in.Category).Valid() {
		return invalid("unknown prompt category %q", in.Category)
	}
	return checkTags(in.Tags)
}

func (in PromptInput) ApplyTo(p *db_models.Prompt) {
	p.Title = strings.TrimSpace(in.Title)
	p.Content = in.Content
	p.Category = db_models.PromptCategory(in.Category)
	if p.Category == "" {
		p.Category = db_models.PromptOther
	}
	p.Tags = normalizeTags(in.Tags)
	p.Favorite = in.Favorite
}

type ScriptInput struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Platform        string   `json:"platform"`
	Status          string   `json:"status"`
	DurationSeconds int      `json:"duration_seconds"`
	Tags            []string `json:"tags"`
}

func (in ScriptInput) Validate() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	if in.Platform != "" && !db_models.ScriptPlatform(in.Platform).Valid() {
		return invalid("unknown platform %q", in.Platform)
	}
	if in.Status != "" && !db_models.ScriptStatus(in.Status).Valid() {
		return invalid("unknown script status %q", in.Status)
	}
	if in.DurationSeconds < 0 {
		return invalid("duration_seconds must not be negative")
	}
	return checkTags(in.Tags)
}

func (in ScriptInput) ApplyTo(s *db_models.Script) {
	s.Title = strings.TrimSpace(in.Title)
	s.Content = in.Content
	s.Platform = db_models.ScriptPlatform(in.Platform)
	if s.Platform == "" {
		s.Platform = db_models.PlatformOther
	}
	s.Status = db_models.ScriptStatus(in.Status)
	if s.Status == "" {
		s.Status = db_models.ScriptDraft
	}
	s.DurationSeconds = in.DurationSeconds
	s.Tags = normalizeTags(in.Tags)
}

type ResourceInput struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Notes    string   `json:"notes"`
}

func (in ResourceInput) Validate() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	if in.URL != "" {
		u, err := url.Parse(in.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return invalid("url must be an absolute http(s) address")
		}
	}
	if in.Type != "" && !db_models.ResourceType(in.Type).Valid() {
		return invalid("unknown resource type %q", in.Type)
	}
	return checkTags(in.Tags)
}

func (in ResourceInput) ApplyTo(r *db_models.Resource) {
	r.Title = strings.TrimSpace(in.Title)
	r.URL = in.URL
	r.Type = db_models.ResourceType(in.Type)
	if r.Type == "" {
		r.Type = db_models.ResourceOther
	}
	r.Category = strings.TrimSpace(in.Category)
	r.Tags = normalizeTags(in.Tags)
	r.Notes = in.Notes
}

type ThumbnailInput struct {
	Title         string   `json:"title"`
	Template      string   `json:"template"`
	GradientStart string   `json:"gradient_start"`
	GradientEnd   string   `json:"gradient_end"`
	Direction     string   `json:"direction"`
	Headline      string   `json:"headline"`
	Subtitle      string   `json:"subtitle"`
	TextColor     string   `json:"text_color"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	Tags          []string `json:"tags"`
}

func (in ThumbnailInput) Validate() error {
	if err := requireTitle(in.Title); err != nil {
		return err
	}
	for name, c := range map[string]string{
		"gradient_start": in.GradientStart,
		"gradient_end":   in.GradientEnd,
		"text_color":     in.TextColor,
	} {
		if c == "" {
			continue
		}
		if _, err := utils.ParseHexColor(c); err != nil {
			return invalid("%s: %v", name, err)
		}
	}
	switch in.Direction {
	case "", "vertical", "horizontal", "diagonal":
	default:
		return invalid("unknown gradient direction %q", in.Direction)
	}
	if in.Width != 0 && (in.Width < 320 || in.Width > 1920) {
		return invalid("width must be between 320 and 1920")
	}
	if in.Height != 0 && (in.Height < 180 || in.Height > 1080) {
		return invalid("height must be between 180 and 1080")
	}
	return checkTags(in.Tags)
}

func (in ThumbnailInput) ApplyTo(t *db_models.Thumbnail) {
	t.Title = strings.TrimSpace(in.Title)
	t.Template = in.Template
	if t.Template == "" {
		t.Template = "custom"
	}
	t.GradientStart = orDefault(in.GradientStart, "#6d28d9")
	t.GradientEnd = orDefault(in.GradientEnd, "#db2777")
	t.Direction = orDefault(in.Direction, "diagonal")
	t.Headline = in.Headline
	t.Subtitle = in.Subtitle
	t.TextColor = orDefault(in.TextColor, "#ffffff")
	t.Width = in.Width
	if t.Width == 0 {
		t.Width = 1280
	}
	t.Height = in.Height
	if t.Height == 0 {
		t.Height = 720
	}
	t.Tags = normalizeTags(in.Tags)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
