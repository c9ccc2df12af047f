package database

import (
	"gorm.io/gorm"
)

type Database struct {
	db            *gorm.DB
	userRepo      *UserRepo
	categoryRepo  *CategoryRepo
	articleRepo   *ArticleRepo
	projectRepo   *ProjectRepo
	studentRepo   *StudentRepo
	mediaRepo     *MediaRepo
	candidateRepo *CandidateRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:            db,
		userRepo:      NewUserRepo(db),
		categoryRepo:  NewCategoryRepo(db),
		articleRepo:   NewArticleRepo(db),
		projectRepo:   NewProjectRepo(db),
		studentRepo:   NewStudentRepo(db),
		mediaRepo:     NewMediaRepo(db),
		candidateRepo: NewCandidateRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) ArticleRepo() *ArticleRepo {
	return d.articleRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) StudentRepo() *StudentRepo {
	return d.studentRepo
}

func (d Database) MediaRepo() *MediaRepo {
	return d.mediaRepo
}

func (d Database) CandidateRepo() *CandidateRepo {
	return d.candidateRepo
}

// Ping checks the primary connection, used by the health endpoint.
func (d Database) Ping() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
