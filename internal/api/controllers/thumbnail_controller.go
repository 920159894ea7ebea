package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"redcreativa/internal/models/db_models"
	"redcreativa/internal/models/request_models"
	"redcreativa/internal/services"
	"redcreativa/pkg/thumbnail"
	"redcreativa/pkg/utils"
)

type ThumbnailController struct {
	*ContentController[db_models.Thumbnail, request_models.ThumbnailInput]
	thumbnails services.ThumbnailService
}

func NewThumbnailController(s services.ThumbnailService) *ThumbnailController {
	return &ThumbnailController{
		ContentController: NewContentController[db_models.Thumbnail, request_models.ThumbnailInput](s, "Thumbnail"),
		thumbnails:        s,
	}
}

var errOverlayTooLarge = errors.New("overlay exceeds 5MB")

// bindRender accepts either a JSON body, or a multipart form with the JSON in
// the "data" field and an optional "overlay" image file.
func bindRender(c *gin.Context) (request_models.ThumbnailInput, []byte, error) {
	var in request_models.ThumbnailInput
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		err := c.ShouldBindJSON(&in)
		return in, nil, err
	}

	if err := json.Unmarshal([]byte(c.PostForm("data")), &in); err != nil {
		return in, nil, err
	}
	fh, err := c.FormFile("overlay")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, err
	}
	if fh.Size > thumbnail.MaxOverlayBytes {
		return in, nil, errOverlayTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return in, nil, err
	}
	defer f.Close()

	overlay, err := io.ReadAll(io.LimitReader(f, thumbnail.MaxOverlayBytes+1))
	if err != nil {
		return in, nil, err
	}
	if len(overlay) > thumbnail.MaxOverlayBytes {
		return in, nil, errOverlayTooLarge
	}
	return in, overlay, nil
}

// Render godoc
// @Summary Render and store a thumbnail
// @Tags Thumbnails
// @Accept json,mpfd
// @Produce json
// @Param data formData string false "Thumbnail JSON when sending multipart"
// @Param overlay formData file false "PNG or JPEG overlay"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /thumbnails/render [post]
func (tc *ThumbnailController) Render(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	in, overlay, err := bindRender(c)
	if errors.Is(err, errOverlayTooLarge) {
		utils.RespondError(c, http.StatusRequestEntityTooLarge, "Overlay must be at most 5MB")
		return
	}
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	t, err := tc.thumbnails.Render(c.Request.Context(), ownerID, in, overlay)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondWithStatus(c, http.StatusCreated, t, "Thumbnail rendered")
}

// Image godoc
// @Summary Download the rendered PNG
// @Tags Thumbnails
// @Produce png
// @Param id path string true "Thumbnail ID"
// @Success 200 {file} binary
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /thumbnails/{id}/image [get]
func (tc *ThumbnailController) Image(c *gin.Context) {
	ownerID, ok := currentOwner(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	png, err := tc.thumbnails.Image(c.Request.Context(), ownerID, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+id.String()+`.png"`)
	c.Data(http.StatusOK, "image/png", png)
}
