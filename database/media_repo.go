package database

import (
	"context"

	"github.com/rpupo63/student-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MediaRepo struct {
	db *gorm.DB
}

func NewMediaRepo(db *gorm.DB) *MediaRepo {
	return &MediaRepo{db}
}

func (r *MediaRepo) FindAll(ctx context.Context) ([]*models.Media, error) {
	var media []*models.Media
	err := r.db.WithContext(ctx).Order("id DESC").Find(&media).Error
	return media, err
}

func (r *MediaRepo) FindByID(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

// Add records an uploaded blob.
func (r *MediaRepo) Add(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(media).Error
	})
}

// IsLinked reports whether any project references the media.
func (r *MediaRepo) IsLinked(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("project_media").Where("media_id = ?", id).Count(&count).Error
	return count > 0, err
}

// LinkedIDs returns which of ids are referenced by at least one project.
func (r *MediaRepo) LinkedIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	linked := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return linked, nil
	}
	var rows []uint
	err := r.db.WithContext(ctx).Table("project_media").
		Distinct("media_id").
		Where("media_id IN ?", ids).
		Pluck("media_id", &rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range rows {
		linked[id] = true
	}
	return linked, nil
}

// Delete removes the media row and its join rows and returns the deleted
// row so the caller can drop the blob.
func (r *MediaRepo) Delete(ctx context.Context, id uint) (*models.Media, error) {
	var media models.Media
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&media, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&media).Association("Projects").Clear(); err != nil {
			return err
		}
		return tx.Delete(&media).Error
	})
	if err != nil {
		return nil, err
	}
	return &media, nil
}
