package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"redcreativa/internal/models/db_models"
)

type PostRepository interface {
	ContentRepository[db_models.BlogPost]
	SlugTaken(ctx context.Context, ownerID uuid.UUID, slug string, exceptID uuid.UUID) (bool, error)
}

type postRepository struct {
	ContentRepository[db_models.BlogPost]
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		ContentRepository: NewContentRepository[db_models.BlogPost](db, PostTable),
		db:                db,
	}
}

func (r *postRepository) SlugTaken(ctx context.Context, ownerID uuid.UUID, slug string, exceptID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&db_models.BlogPost{}).
		Where("owner_id = ? AND slug = ? AND id <> ?", ownerID, slug, exceptID).
		Count(&n).Error
	return n > 0, err
}
