package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"redcreativa/internal/models/request_models"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// TaskFixture links a task to a seeded project by title.
type TaskFixture struct {
	request_models.TaskInput
	Project string `json:"project"`
}

type Fixtures struct {
	Anchor     time.Time                       `json:"anchor"`
	Projects   []request_models.ProjectInput   `json:"projects"`
	Tasks      []TaskFixture                   `json:"tasks"`
	Events     []request_models.EventInput     `json:"events"`
	Posts      []request_models.PostInput      `json:"posts"`
	Prompts    []request_models.PromptInput    `json:"prompts"`
	Scripts    []request_models.ScriptInput    `json:"scripts"`
	Resources  []request_models.ResourceInput  `json:"resources"`
	Thumbnails []request_models.ThumbnailInput `json:"thumbnails"`
}

func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// ParseFixtures decodes YAML whose keys follow the API's JSON field names and
// validates every item.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	// The inputs only carry json tags.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	var f Fixtures
	if err := json.Unmarshal(buf, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

type validator interface {
	Validate() error
}

func validateAll[I validator](kind string, items []I) error {
	for i, in := range items {
		if err := in.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
	}
	return nil
}

func (f *Fixtures) Validate() error {
	tasks := make([]request_models.TaskInput, len(f.Tasks))
	for i, t := range f.Tasks {
		tasks[i] = t.TaskInput
	}
	for _, err := range []error{
		validateAll("projects", f.Projects),
		validateAll("tasks", tasks),
		validateAll("events", f.Events),
		validateAll("posts", f.Posts),
		validateAll("prompts", f.Prompts),
		validateAll("scripts", f.Scripts),
		validateAll("resources", f.Resources),
		validateAll("thumbnails", f.Thumbnails),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Shift moves every dated item by the whole days between the anchor and
// today, so the calendar looks current. Without an anchor nothing moves.
func (f *Fixtures) Shift(today time.Time) {
	if f.Anchor.IsZero() {
		return
	}
	const day = 24 * time.Hour
	delta := today.UTC().Truncate(day).Sub(f.Anchor.UTC().Truncate(day))

	for i := range f.Events {
		e := &f.Events[i]
		e.StartsAt = e.StartsAt.Add(delta)
		if !e.EndsAt.IsZero() {
			e.EndsAt = e.EndsAt.Add(delta)
		}
	}
	for i := range f.Tasks {
		if due := f.Tasks[i].DueDate; due != nil {
			shifted := due.Add(delta)
			f.Tasks[i].DueDate = &shifted
		}
	}
	f.Anchor = f.Anchor.Add(delta)
}
