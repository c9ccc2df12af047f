package database

import (
	"context"

	"github.com/rpupo63/student-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentRepo struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) *StudentRepo {
	return &StudentRepo{db}
}

func (r *StudentRepo) FindAll(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	err := r.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("projects.id") }).
		Order("surname, name, id").
		Find(&students).Error
	return students, err
}

// FindByID returns the student with the projects read from project_students.
func (r *StudentRepo) FindByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("projects.id") }).
		First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentRepo) Add(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(student).Error
}

// Update never writes the project links; those belong to the project side.
func (r *StudentRepo) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(student).Error
}

// Delete removes the student and its join rows. Projects stay.
func (r *StudentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student models.Student
		if err := tx.First(&student, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&student).Association("Projects").Clear(); err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
}
