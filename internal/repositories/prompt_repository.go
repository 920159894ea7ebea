package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"redcreativa/internal/models/db_models"
)

type PromptRepository interface {
	ContentRepository[db_models.Prompt]
	// Similar orders the owner's prompts by cosine distance to vector.
	Similar(ctx context.Context, ownerID uuid.UUID, vector pgvector.Vector, limit int) ([]db_models.Prompt, error)
	SetFavorite(ctx context.Context, ownerID, id uuid.UUID, favorite bool) (bool, error)
}

type promptRepository struct {
	ContentRepository[db_models.Prompt]
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &promptRepository{
		ContentRepository: NewContentRepository[db_models.Prompt](db, PromptTable),
		db:                db,
	}
}

func (r *promptRepository) Similar(ctx context.Context, ownerID uuid.UUID, vector pgvector.Vector, limit int) ([]db_models.Prompt, error) {
	var results []db_models.Prompt
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND embedding IS NOT NULL", ownerID).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{vector}},
		}).
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *promptRepository) SetFavorite(ctx context.Context, ownerID, id uuid.UUID, favorite bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&db_models.Prompt{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("favorite", favorite)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
