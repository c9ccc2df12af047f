package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
	"gorm.io/gorm"
)

type ArticleRepo struct {
	db *gorm.DB
}

func NewArticleRepo(db *gorm.DB) *ArticleRepo {
	return &ArticleRepo{db}
}

// FindAll returns all articles with their category and author, newest first.
// categoryID filters when non-zero.
func (r *ArticleRepo) FindAll(ctx context.Context, categoryID uint) ([]*models.Article, error) {
	var articles []*models.Article
	query := r.db.WithContext(ctx).Preload("Category").Preload("Author").Order("id DESC")
	if categoryID != 0 {
		query = query.Where("category_id = ?", categoryID)
	}
	err := query.Find(&articles).Error
	return articles, err
}

// FindByID returns an article by its ID
func (r *ArticleRepo) FindByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Preload("Category").Preload("Author").First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Add inserts a new article. The title must be unused and the category must exist.
func (r *ArticleRepo) Add(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkArticle(tx, article); err != nil {
			return err
		}
		if err := tx.Omit("Category", "Author").Create(article).Error; err != nil {
			return err
		}
		return tx.Preload("Category").Preload("Author").First(article, article.ID).Error
	})
}

// Update saves an existing article with the same checks as Add.
func (r *ArticleRepo) Update(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkArticle(tx, article); err != nil {
			return err
		}
		if err := tx.Omit("Category", "Author").Save(article).Error; err != nil {
			return err
		}
		return tx.Preload("Category").Preload("Author").First(article, article.ID).Error
	})
}

// Delete removes an article from the database by id
func (r *ArticleRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Article{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TitleTaken reports whether another article already uses title.
func (r *ArticleRepo) TitleTaken(ctx context.Context, title string, exceptID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Article{}).Where("title = ?", title)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func checkArticle(tx *gorm.DB, article *models.Article) error {
	if article.AuthorID == 0 {
		return errs.NewMissingRequiredFieldError("author")
	}

	taken, err := (&ArticleRepo{tx}).TitleTaken(tx.Statement.Context, article.Title, article.ID)
	if err != nil {
		return err
	}
	if taken {
		return errs.NewAlreadyExists("article", "title")
	}

	var category models.Category
	if err := tx.First(&category, article.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewBadRequestErrorWithField("unknown category", "categoryId",
				fmt.Sprintf("category %d does not exist", article.CategoryID))
		}
		return err
	}
	return nil
}
