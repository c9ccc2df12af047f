package api

import (
	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler    healthHandler
	userHandler      userHandler
	articleHandler   articleHandler
	categoryHandler  categoryHandler
	projectHandler   projectHandler
	studentHandler   studentHandler
	candidateHandler candidateHandler
	mediaHandler     mediaHandler
	galleryHandler   galleryHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error      string           `json:"error" example:"Internal Server Error"`
	Status     string           `json:"status" example:"error"`
	Field      string           `json:"field,omitempty" example:"title"`
	Details    string           `json:"details,omitempty" example:"Additional error details"`
	Cause      string           `json:"cause,omitempty" example:"Underlying error cause"`
	Violations []errs.Violation `json:"violations,omitempty"`
}

// Collection wraps every list response.
type Collection[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func newCollection[T any](items []T) Collection[T] {
	if items == nil {
		items = []T{}
	}
	return Collection[T]{Items: items, Total: len(items)}
}

// StatusMessage is returned by deletes.
type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func deleted(entity string) StatusMessage {
	return StatusMessage{Status: "success", Message: entity + " deleted successfully"}
}

type studentSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

type mediaSummary struct {
	ID         uint   `json:"id"`
	ContentURL string `json:"contentUrl"`
	MimeType   string `json:"mimeType"`
}

type projectSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// ProjectResponse is a project with its students and media embedded.
type ProjectResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Date        int              `json:"date"`
	Techno      string           `json:"techno"`
	IsActive    bool             `json:"isActive"`
	Link        *string          `json:"link"`
	OwnerID     *uint            `json:"ownerId,omitempty"`
	Students    []studentSummary `json:"students"`
	Media       []mediaSummary   `json:"media"`
	URL         string           `json:"url,omitempty"`
}

func newProjectResponse(p *models.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Date:        p.Date,
		Techno:      p.Techno,
		IsActive:    p.IsActive,
		Link:        p.Link,
		OwnerID:     p.OwnerID,
		Students:    make([]studentSummary, 0, len(p.Students)),
		Media:       make([]mediaSummary, 0, len(p.Media)),
	}
	for _, s := range p.Students {
		resp.Students = append(resp.Students, studentSummary{ID: s.ID, Name: s.Name, Surname: s.Surname})
	}
	for _, m := range p.Media {
		resp.Media = append(resp.Media, mediaSummary{ID: m.ID, ContentURL: m.ContentURL, MimeType: m.MimeType})
	}
	return resp
}

// StudentResponse lists the projects read from the shared join table.
type StudentResponse struct {
	ID       uint             `json:"id"`
	Name     string           `json:"name"`
	Surname  string           `json:"surname"`
	Projects []projectSummary `json:"projects"`
}

func newStudentResponse(s *models.Student) StudentResponse {
	resp := StudentResponse{
		ID:       s.ID,
		Name:     s.Name,
		Surname:  s.Surname,
		Projects: make([]projectSummary, 0, len(s.Projects)),
	}
	for _, p := range s.Projects {
		resp.Projects = append(resp.Projects, projectSummary{ID: p.ID, Title: p.Title})
	}
	return resp
}

type authorSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

type ArticleResponse struct {
	ID         uint             `json:"id"`
	Title      string           `json:"title"`
	Content    string           `json:"content"`
	CategoryID uint             `json:"categoryId"`
	Category   *models.Category `json:"category,omitempty"`
	AuthorID   uint             `json:"authorId"`
	Author     *authorSummary   `json:"author,omitempty"`
}

func newArticleResponse(a *models.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:         a.ID,
		Title:      a.Title,
		Content:    a.Content,
		CategoryID: a.CategoryID,
		Category:   a.Category,
		AuthorID:   a.AuthorID,
	}
	if a.Author != nil {
		resp.Author = &authorSummary{ID: a.Author.ID, Name: a.Author.Name, Surname: a.Author.Surname}
	}
	return resp
}

// MediaResponse reports whether a project references the media yet.
type MediaResponse struct {
	*models.Media
	Linked bool `json:"linked"`
}

// MediaCreated is the upload response body.
type MediaCreated struct {
	Status string       `json:"status"`
	Media  mediaCreated `json:"media"`
}

type mediaCreated struct {
	ID         uint   `json:"id"`
	ContentURL string `json:"contentUrl"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
