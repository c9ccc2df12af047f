package database

import (
	"context"

	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
	"gorm.io/gorm"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

func (r *CategoryRepo) FindAll(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepo) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepo) Add(ctx context.Context, category *models.Category) error {
	if err := r.checkName(ctx, category.Name, 0); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepo) Update(ctx context.Context, category *models.Category) error {
	if err := r.checkName(ctx, category.Name, category.ID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete fails with a conflict while articles still reference the category.
func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}

		var articles int64
		if err := tx.Model(&models.Article{}).Where("category_id = ?", id).Count(&articles).Error; err != nil {
			return err
		}
		if articles > 0 {
			return errs.NewConflictError("category is still used by articles")
		}
		return tx.Delete(&category).Error
	})
}

func (r *CategoryRepo) checkName(ctx context.Context, name string, exceptID uint) error {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errs.NewAlreadyExists("category", "name")
	}
	return nil
}
