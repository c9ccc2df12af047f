package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

func (r *ProjectRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Students", func(db *gorm.DB) *gorm.DB { return db.Order("students.id") }).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("media.id") })
}

// FindAll returns all projects from the database with students and media
func (r *ProjectRepo) FindAll(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.withRelations(ctx).Order("date DESC, id DESC").Find(&projects).Error
	return projects, err
}

// FindActive returns the projects shown in the public gallery.
func (r *ProjectRepo) FindActive(ctx context.Context) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.withRelations(ctx).Where("is_active = ?", true).Order("date DESC, id DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.withRelations(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindActiveByID returns the project only when it is active.
func (r *ProjectRepo) FindActiveByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	if err := r.withRelations(ctx).Where("is_active = ?", true).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a project and links the given students and media in one
// transaction. Unknown ids abort the whole write.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project, studentIDs, mediaIDs []uint) error {
	return transactionErr("create project", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		students, err := findStudents(tx, studentIDs)
		if err != nil {
			return err
		}
		media, err := findMedia(tx, mediaIDs)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		if err := replaceStudents(tx, project, students); err != nil {
			return err
		}
		if err := replaceMedia(tx, project, media); err != nil {
			return err
		}
		return reload(tx, project)
	}))
}

// Update saves the project columns. A nil id slice leaves that relation
// untouched; a non-nil one replaces it.
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project, studentIDs, mediaIDs *[]uint) error {
	return transactionErr("update project", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}

		if studentIDs != nil {
			students, err := findStudents(tx, *studentIDs)
			if err != nil {
				return err
			}
			if err := replaceStudents(tx, project, students); err != nil {
				return err
			}
		}
		if mediaIDs != nil {
			media, err := findMedia(tx, *mediaIDs)
			if err != nil {
				return err
			}
			if err := replaceMedia(tx, project, media); err != nil {
				return err
			}
		}
		return reload(tx, project)
	}))
}

// Delete removes the project and its join rows. Students and media stay.
func (r *ProjectRepo) Delete(ctx context.Context, id uint) error {
	return transactionErr("delete project", r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&project).Association("Students").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&project).Association("Media").Clear(); err != nil {
			return err
		}
		return tx.Delete(&project).Error
	}))
}

// transactionErr marks unexpected failures inside a project write. Missing
// rows and already classified errors keep their meaning.
func transactionErr(operation string, err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return err
	}
	return errs.NewTransactionFailedError(operation, err)
}

func replaceStudents(tx *gorm.DB, project *models.Project, students []models.Student) error {
	association := tx.Model(project).Association("Students")
	if len(students) == 0 {
		return association.Clear()
	}
	return association.Replace(students)
}

func replaceMedia(tx *gorm.DB, project *models.Project, media []models.Media) error {
	association := tx.Model(project).Association("Media")
	if len(media) == 0 {
		return association.Clear()
	}
	return association.Replace(media)
}

func reload(tx *gorm.DB, project *models.Project) error {
	return tx.
		Preload("Students", func(db *gorm.DB) *gorm.DB { return db.Order("students.id") }).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("media.id") }).
		First(project, project.ID).Error
}

func findStudents(tx *gorm.DB, ids []uint) ([]models.Student, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var students []models.Student
	if err := tx.Where("id IN ?", ids).Find(&students).Error; err != nil {
		return nil, err
	}
	found := make([]uint, 0, len(students))
	for _, s := range students {
		found = append(found, s.ID)
	}
	return students, missingIDs("students", ids, found)
}

func findMedia(tx *gorm.DB, ids []uint) ([]models.Media, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var media []models.Media
	if err := tx.Where("id IN ?", ids).Find(&media).Error; err != nil {
		return nil, err
	}
	found := make([]uint, 0, len(media))
	for _, m := range media {
		found = append(found, m.ID)
	}
	return media, missingIDs("media", ids, found)
}

func uniqueIDs(ids []uint) []uint {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func missingIDs(field string, wanted, found []uint) error {
	var missing []string
	for _, id := range wanted {
		if !slices.Contains(found, id) {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errs.NewBadRequestErrorWithField("unknown "+field, field,
		fmt.Sprintf("no %s with id %s", field, strings.Join(missing, ", ")))
}
