package services

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"

	"redcreativa/internal/models/db_models"
	"redcreativa/internal/models/request_models"
	"redcreativa/internal/repositories"
	"redcreativa/pkg/thumbnail"
	"redcreativa/pkg/utils"
)

type ThumbnailService interface {
	ContentServiceInterface[db_models.Thumbnail, request_models.ThumbnailInput]
	// Render creates a thumbnail with an optional PNG or JPEG overlay.
	Render(ctx context.Context, ownerID uuid.UUID, in request_models.ThumbnailInput, overlay []byte) (*db_models.Thumbnail, error)
	Image(ctx context.Context, ownerID, id uuid.UUID) ([]byte, error)
}

type thumbnailService struct {
	*ContentService[db_models.Thumbnail, *db_models.Thumbnail, request_models.ThumbnailInput]
}

func NewThumbnailService(repo repositories.ContentRepository[db_models.Thumbnail]) ThumbnailService {
	s := &thumbnailService{
		ContentService: newContentService[db_models.Thumbnail, *db_models.Thumbnail, request_models.ThumbnailInput](repo, "thumbnail"),
	}
	s.beforeSave = func(_ context.Context, _ uuid.UUID, t, _ *db_models.Thumbnail) error {
		return renderInto(t, nil)
	}
	return s
}

func (s *thumbnailService) Render(ctx context.Context, ownerID uuid.UUID, in request_models.ThumbnailInput, overlay []byte) (*db_models.Thumbnail, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var img image.Image
	if len(overlay) > 0 {
		decoded, err := thumbnail.DecodeOverlay(overlay)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
		}
		img = decoded
	}

	t := &db_models.Thumbnail{}
	in.ApplyTo(t)
	t.SetOwner(ownerID)
	if err := renderInto(t, img); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, dbError(err)
	}
	return t, nil
}

func (s *thumbnailService) Image(ctx context.Context, ownerID, id uuid.UUID) ([]byte, error) {
	t, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if len(t.Image) == 0 {
		if err := renderInto(t, nil); err != nil {
			return nil, err
		}
	}
	return t.Image, nil
}

func renderInto(t *db_models.Thumbnail, overlay image.Image) error {
	opts, err := ThumbnailOptions(t)
	if err != nil {
		return err
	}
	opts.Overlay = overlay

	data, err := thumbnail.RenderPNG(opts)
	if err != nil {
		if errors.Is(err, thumbnail.ErrInvalidSize) {
			return fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
		}
		return fmt.Errorf("render thumbnail: %w", err)
	}
	t.Image = data
	t.ImageSize = len(data)
	return nil
}

// ThumbnailOptions converts the stored design into render options.
func ThumbnailOptions(t *db_models.Thumbnail) (thumbnail.Options, error) {
	start, err := utils.ParseHexColor(t.GradientStart)
	if err != nil {
		return thumbnail.Options{}, fmt.Errorf("%w: gradient_start: %v", utils.ErrInvalidInput, err)
	}
	end, err := utils.ParseHexColor(t.GradientEnd)
	if err != nil {
		return thumbnail.Options{}, fmt.Errorf("%w: gradient_end: %v", utils.ErrInvalidInput, err)
	}
	text, err := utils.ParseHexColor(t.TextColor)
	if err != nil {
		return thumbnail.Options{}, fmt.Errorf("%w: text_color: %v", utils.ErrInvalidInput, err)
	}
	return thumbnail.Options{
		Width:     t.Width,
		Height:    t.Height,
		Start:     start,
		End:       end,
		Direction: thumbnail.Direction(t.Direction),
		Headline:  t.Headline,
		Subtitle:  t.Subtitle,
		TextColor: text,
	}, nil
}
