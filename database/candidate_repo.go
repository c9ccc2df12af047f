package database

import (
	"context"

	"github.com/rpupo63/student-showcase-backend/models"
	"gorm.io/gorm"
)

type CandidateRepo struct {
	db *gorm.DB
}

func NewCandidateRepo(db *gorm.DB) *CandidateRepo {
	return &CandidateRepo{db}
}

// FindAll returns candidates, most recent application first
func (r *CandidateRepo) FindAll(ctx context.Context) ([]*models.Candidate, error) {
	var candidates []*models.Candidate
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&candidates).Error
	return candidates, err
}

func (r *CandidateRepo) FindByID(ctx context.Context, id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := r.db.WithContext(ctx).First(&candidate, id).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (r *CandidateRepo) Add(ctx context.Context, candidate *models.Candidate) error {
	return r.db.WithContext(ctx).Create(candidate).Error
}

func (r *CandidateRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Candidate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
