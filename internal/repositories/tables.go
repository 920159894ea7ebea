package repositories

var commonSort = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

func withSort(extra map[string]string) map[string]string {
	out := make(map[string]string, len(commonSort)+len(extra))
	for k, v := range commonSort {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

var (
	ProjectTable = TableSpec{
		SortColumns:   withSort(map[string]string{"status": "status"}),
		DefaultSort:   "updated_at",
		StatusColumn:  "status",
		SearchColumns: []string{"title", "description"},
	}
	TaskTable = TableSpec{
		SortColumns: withSort(map[string]string{
			"status":   "status",
			"priority": "priority",
			"due_date": "due_date",
			"position": "position",
		}),
		DefaultSort:    "position",
		StatusColumn:   "status",
		CategoryColumn: "priority",
		SearchColumns:  []string{"title", "description"},
	}
	EventTable = TableSpec{
		SortColumns:    withSort(map[string]string{"starts_at": "starts_at", "ends_at": "ends_at"}),
		DefaultSort:    "starts_at",
		CategoryColumn: "category",
		SearchColumns:  []string{"title", "description", "location"},
		RangeColumn:    "starts_at",
	}
	PostTable = TableSpec{
		SortColumns:    withSort(map[string]string{"published_at": "published_at", "status": "status"}),
		DefaultSort:    "updated_at",
		StatusColumn:   "status",
		CategoryColumn: "category",
		SearchColumns:  []string{"title", "excerpt", "content"},
	}
	PromptTable = TableSpec{
		SortColumns:    withSort(map[string]string{"favorite": "favorite"}),
		DefaultSort:    "updated_at",
		CategoryColumn: "category",
		SearchColumns:  []string{"title", "content"},
	}
	ScriptTable = TableSpec{
		SortColumns:    withSort(map[string]string{"duration": "duration_seconds", "status": "status"}),
		DefaultSort:    "updated_at",
		StatusColumn:   "status",
		CategoryColumn: "platform",
		SearchColumns:  []string{"title", "content"},
	}
	ResourceTable = TableSpec{
		SortColumns:    withSort(map[string]string{"type": "type"}),
		DefaultSort:    "created_at",
		StatusColumn:   "type",
		CategoryColumn: "category",
		SearchColumns:  []string{"title", "notes", "url"},
	}
	ThumbnailTable = TableSpec{
		SortColumns:    withSort(nil),
		DefaultSort:    "created_at",
		CategoryColumn: "template",
		SearchColumns:  []string{"title", "headline"},
	}
)
