package api

import (
	"time"
)

type handlerSettings struct {
	maxUploadBytes int64
	baseURL        string
	startupTime    time.Time
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, settings handlerSettings) *routeHandlers {
	db := deps.Database
	return &routeHandlers{
		healthHandler:    newHealthHandler(db, settings.startupTime),
		userHandler:      newUserHandler(db.UserRepo(), deps.Tokens, deps.Policy),
		articleHandler:   newArticleHandler(db.ArticleRepo(), deps.Policy),
		categoryHandler:  newCategoryHandler(db.CategoryRepo(), deps.Policy),
		projectHandler:   newProjectHandler(db.ProjectRepo(), deps.Policy),
		studentHandler:   newStudentHandler(db.StudentRepo(), deps.Policy),
		candidateHandler: newCandidateHandler(db.CandidateRepo(), deps.Notifier, deps.Policy),
		mediaHandler:     newMediaHandler(db.MediaRepo(), deps.Storage, deps.Policy, settings.maxUploadBytes),
		galleryHandler:   newGalleryHandler(db.ProjectRepo(), settings.baseURL),
	}
}
