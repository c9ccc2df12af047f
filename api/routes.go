package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts every resource under /api. The identify middleware runs
// on all of them; each handler applies the access rules itself.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/health", handlers.healthHandler.health())

	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.identify)

		r.Post("/auth", handlers.userHandler.login())

		r.Route("/users", func(r chi.Router) {
			r.Get("/", handlers.userHandler.getAllUsers())
			r.Post("/", handlers.userHandler.register())
			r.With(authMiddleware.requireCaller).Get("/me", handlers.userHandler.getMe())
			r.Get("/{userID}", handlers.userHandler.getUser())
			r.Patch("/{userID}", handlers.userHandler.updateUser())
			r.Delete("/{userID}", handlers.userHandler.deleteUser())
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", handlers.articleHandler.getAllArticles())
			r.Post("/", handlers.articleHandler.createArticle())
			r.Get("/{articleID}", handlers.articleHandler.getArticle())
			r.Patch("/{articleID}", handlers.articleHandler.updateArticle())
			r.Delete("/{articleID}", handlers.articleHandler.deleteArticle())
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", handlers.categoryHandler.getAllCategories())
			r.Post("/", handlers.categoryHandler.createCategory())
			r.Get("/{categoryID}", handlers.categoryHandler.getCategory())
			r.Patch("/{categoryID}", handlers.categoryHandler.updateCategory())
			r.Delete("/{categoryID}", handlers.categoryHandler.deleteCategory())
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.getAllProjects())
			r.Post("/", handlers.projectHandler.createProject())
			r.Get("/{projectID}", handlers.projectHandler.getProject())
			r.Patch("/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/{projectID}", handlers.projectHandler.deleteProject())
		})

		r.Route("/students", func(r chi.Router) {
			r.Get("/", handlers.studentHandler.getAllStudents())
			r.Post("/", handlers.studentHandler.createStudent())
			r.Get("/{studentID}", handlers.studentHandler.getStudent())
			r.Patch("/{studentID}", handlers.studentHandler.updateStudent())
			r.Delete("/{studentID}", handlers.studentHandler.deleteStudent())
		})

		r.Route("/candidates", func(r chi.Router) {
			r.Get("/", handlers.candidateHandler.getAllCandidates())
			r.Post("/", handlers.candidateHandler.createCandidate())
			r.Get("/{candidateID}", handlers.candidateHandler.getCandidate())
			r.Delete("/{candidateID}", handlers.candidateHandler.deleteCandidate())
		})

		r.Route("/media", func(r chi.Router) {
			r.Get("/", handlers.mediaHandler.getAllMedia())
			r.Post("/", handlers.mediaHandler.uploadMedia())
			r.Get("/{mediaID}", handlers.mediaHandler.getMedia())
			r.Delete("/{mediaID}", handlers.mediaHandler.deleteMedia())
		})

		r.Get("/gallery", handlers.galleryHandler.getGallery())
		r.Get("/gallery/{projectID}", handlers.galleryHandler.getGalleryProject())
	})
}
