package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"redcreativa/internal/models/db_models"
	"redcreativa/internal/models/request_models"
	"redcreativa/internal/services"
	"redcreativa/pkg/utils"
)

type (
	ProjectController  = ContentController[db_models.Project, request_models.ProjectInput]
	ScriptController   = ContentController[db_models.Script, request_models.ScriptInput]
	ResourceController = ContentController[db_models.Resource, request_models.ResourceInput]
)

func NewProjectController(s services.ProjectService) *ProjectController {
	return NewContentController(s, "Project")
}

func NewScriptController(s services.ScriptService) *ScriptController {
	return NewContentController(s, "Script")
}

func NewResourceController(s services.ResourceService) *ResourceController {
	return NewContentController(s, "Resource")
}

type TaskController struct {
	*ContentController[db_models.Task, request_models.TaskInput]
	tasks services.TaskService
}

func NewTaskController(s services.TaskService) *TaskController {
	return &TaskController{
		ContentController: NewContentController[db_models.Task, request_models.TaskInput](s, "Task"),
		tasks:             s,
	}
}

// Move godoc
// @Summary Move a task to a board column
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body request_models.MoveTaskRequest true "Target column and position"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /tasks/{id}/move [patch]
func (tc *TaskController) Move(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req request_models.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := tc.tasks.Move(c.Request.Context(), ownerID, id, req.Status, req.Position)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, task, "Task moved")
}

type EventController struct {
	*ContentController[db_models.CalendarEvent, request_models.EventInput]
	events services.EventService
}

func NewEventController(s services.EventService) *EventController {
	return &EventController{
		ContentController: NewContentController[db_models.CalendarEvent, request_models.EventInput](s, "Event"),
		events:            s,
	}
}

// Range godoc
// @Summary Calendar events between two instants
// @Tags Events
// @Produce json
// @Param from query string true "RFC3339 start"
// @Param to query string true "RFC3339 end"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /events/range [get]
func (ec *EventController) Range(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "from must be an RFC3339 timestamp")
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "to must be an RFC3339 timestamp")
		return
	}

	items, err := ec.events.Range(c.Request.Context(), ownerID, from, to)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, items, "")
}

type PostController struct {
	*ContentController[db_models.BlogPost, request_models.PostInput]
	posts services.PostService
}

func NewPostController(s services.PostService) *PostController {
	return &PostController{
		ContentController: NewContentController[db_models.BlogPost, request_models.PostInput](s, "Post"),
		posts:             s,
	}
}

// Publish godoc
// @Summary Publish a blog post
// @Tags Posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /posts/{id}/publish [post]
func (pc *PostController) Publish(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	post, err := pc.posts.Publish(c.Request.Context(), ownerID, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, post, "Post published")
}

type PromptController struct {
	*ContentController[db_models.Prompt, request_models.PromptInput]
	prompts services.PromptService
}

func NewPromptController(s services.PromptService) *PromptController {
	return &PromptController{
		ContentController: NewContentController[db_models.Prompt, request_models.PromptInput](s, "Prompt"),
		prompts:           s,
	}
}

// Similar godoc
// @Summary Prompts closest to a query text
// @Tags Prompts
// @Produce json
// @Param q query string true "Query text"
// @Param limit query int false "Max results" default(5)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /prompts/similar [get]
func (pc *PromptController) Similar(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	var req request_models.SimilarPromptsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "q is required")
		return
	}

	prompts, err := pc.prompts.Similar(c.Request.Context(), ownerID, req.Query, req.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, prompts, "")
}

// ToggleFavorite godoc
// @Summary Flip the favorite flag of a prompt
// @Tags Prompts
// @Produce json
// @Param id path string true "Prompt ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /prompts/{id}/favorite [post]
func (pc *PromptController) ToggleFavorite(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	prompt, err := pc.prompts.ToggleFavorite(c.Request.Context(), ownerID, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, prompt, "")
}
