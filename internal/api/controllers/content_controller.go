package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"redcreativa/internal/models/request_models"
	"redcreativa/internal/services"
	"redcreativa/pkg/middleware"
	"redcreativa/pkg/utils"
)

// ContentController serves the CRUD routes of one feature. Every call is
// scoped to the current user.
type ContentController[T any, I any] struct {
	service services.ContentServiceInterface[T, I]
	name    string
}

func NewContentController[T any, I any](service services.ContentServiceInterface[T, I], name string) *ContentController[T, I] {
	return &ContentController[T, I]{service: service, name: name}
}

func currentOwner(c *gin.Context) (uuid.UUID, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthorized)
		return uuid.Nil, false
	}
	return user.ID, true
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// Register mounts list/get/create/update/delete on group. The write
// handlers run before the mutating routes.
func (cc *ContentController[T, I]) Register(group *gin.RouterGroup, write ...gin.HandlerFunc) {
	group.GET("", cc.List)
	group.GET("/:id", cc.Get)
	group.POST("", append(write, cc.Create)...)
	group.PUT("/:id", append(write, cc.Update)...)
	group.DELETE("/:id", append(write, cc.Delete)...)
}

// List godoc
// @Summary List the current user's items
// @Tags Content
// @Produce json
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param tag query string false "Tag filter"
// @Param q query string false "Search in title"
// @Param sort query string false "Sort column"
// @Param order query string false "asc or desc"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /{feature} [get]
func (cc *ContentController[T, I]) List(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	var req request_models.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := cc.service.List(c.Request.Context(), ownerID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "")
}

// Get godoc
// @Summary Get one item
// @Tags Content
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /{feature}/{id} [get]
func (cc *ContentController[T, I]) Get(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := cc.service.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, item, "")
}

// Create godoc
// @Summary Create an item
// @Tags Content
// @Accept json
// @Produce json
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /{feature} [post]
func (cc *ContentController[T, I]) Create(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	var in I
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	item, err := cc.service.Create(c.Request.Context(), ownerID, in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, item, cc.name+" created")
}

// Update godoc
// @Summary Replace an item
// @Tags Content
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /{feature}/{id} [put]
func (cc *ContentController[T, I]) Update(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in I
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	item, err := cc.service.Update(c.Request.Context(), ownerID, id, in)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, item, cc.name+" updated")
}

// Delete godoc
// @Summary Delete an item
// @Tags Content
// @Param id path string true "Item ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /{feature}/{id} [delete]
func (cc *ContentController[T, I]) Delete(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := cc.service.Delete(c.Request.Context(), ownerID, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, cc.name+" deleted")
}
