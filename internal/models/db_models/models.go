package db_models

// All lists every table managed by AutoMigrate.
func All() []any {
	return []any{
		&Identity{},
		&Profile{},
		&Project{},
		&Task{},
		&CalendarEvent{},
		&BlogPost{},
		&Prompt{},
		&Script{},
		&Resource{},
		&Thumbnail{},
		&Plan{},
		&Subscription{},
		&Transaction{},
	}
}

// ContentTables maps each owner scoped feature to its model, keyed the way
// the dashboard reports it.
func ContentTables() map[string]any {
	return map[string]any{
		"projects":   &Project{},
		"tasks":      &Task{},
		"events":     &CalendarEvent{},
		"posts":      &BlogPost{},
		"prompts":    &Prompt{},
		"scripts":    &Script{},
		"resources":  &Resource{},
		"thumbnails": &Thumbnail{},
	}
}
