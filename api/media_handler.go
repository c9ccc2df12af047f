package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/rpupo63/student-showcase-backend/access"
	"github.com/rpupo63/student-showcase-backend/database"
	"github.com/rpupo63/student-showcase-backend/errs"
	"github.com/rpupo63/student-showcase-backend/models"
	"github.com/rpupo63/student-showcase-backend/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// multipart form fields beyond the file itself are small.
const multipartOverhead = 1 << 20

type mediaHandler struct {
	responder      Responder
	logger         zerolog.Logger
	mediaRepo      *database.MediaRepo
	store          storage.BlobStore
	policy         access.Policy
	maxUploadBytes int64
}

func newMediaHandler(mediaRepo *database.MediaRepo, store storage.BlobStore, policy access.Policy, maxUploadBytes int64) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}

	return mediaHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		mediaRepo:      mediaRepo,
		store:          store,
		policy:         policy,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h mediaHandler) getAllMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Media, access.List, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		media, err := h.mediaRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "media", err))
			return
		}

		ids := make([]uint, 0, len(media))
		for _, m := range media {
			ids = append(ids, m.ID)
		}
		linked, err := h.mediaRepo.LinkedIDs(r.Context(), ids)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "media links", err))
			return
		}

		h.responder.WriteJSON(w, newCollection(mapSlice(media, func(m *models.Media) MediaResponse {
			return MediaResponse{Media: m, Linked: linked[m.ID]}
		})))
	}
}

func (h mediaHandler) getMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaID, err := urlID(r, "mediaID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		media, err := h.mediaRepo.FindByID(r.Context(), mediaID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "media", err))
			return
		}

		if err := h.policy.Check(access.Media, access.Get, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		linked, err := h.mediaRepo.IsLinked(r.Context(), mediaID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "media links", err))
			return
		}

		h.responder.WriteJSON(w, MediaResponse{Media: media, Linked: linked})
	}
}

// uploadMedia stores the multipart "file" part and records it. Nothing is
// stored or persisted when the part is missing.
// @Summary Upload media
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} MediaCreated
// @Failure 400 {object} ErrorResponse "Missing file"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 415 {object} ErrorResponse "Not an accepted image or video type"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /api/media [post]
func (h mediaHandler) uploadMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Check(access.Media, access.Create, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxUploadBytes))
				return
			}
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		if header.Size > h.maxUploadBytes {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(h.maxUploadBytes))
			return
		}

		ext, contentType, err := storage.MediaType(header.Filename)
		if err != nil {
			h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(header.Filename, storage.AllowedMediaTypes()))
			return
		}
		key := storage.NewObjectKey(ext)

		contentURL, err := h.store.Put(r.Context(), key, file, contentType)
		if err != nil {
			h.responder.WriteError(w, errs.NewStorageError("upload", err))
			return
		}

		media := models.Media{
			FilePath:     key,
			ContentURL:   contentURL,
			MimeType:     contentType,
			Size:         header.Size,
			OriginalName: header.Filename,
		}
		if err := h.mediaRepo.Add(r.Context(), &media); err != nil {
			// The request may be canceled already; the cleanup must still run.
			if delErr := h.store.Delete(context.WithoutCancel(r.Context()), key); delErr != nil {
				h.logger.Error().Err(delErr).Str("key", key).Msg("failed to remove orphaned upload")
			}
			h.responder.WriteError(w, wrapDatabaseError("create", "media", err))
			return
		}

		h.logger.Info().Uint("mediaId", media.ID).Str("key", key).Int64("size", media.Size).Msg("media uploaded")
		h.responder.WriteCreated(w, MediaCreated{
			Status: "success",
			Media:  mediaCreated{ID: media.ID, ContentURL: media.ContentURL},
		})
	}
}

// deleteMedia removes the join rows, the row and then the blob.
func (h mediaHandler) deleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mediaID, err := urlID(r, "mediaID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if _, err := h.mediaRepo.FindByID(r.Context(), mediaID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "media", err))
			return
		}

		if err := h.policy.Check(access.Media, access.Delete, ctxGetCaller(r.Context()), access.Resource{}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		media, err := h.mediaRepo.Delete(r.Context(), mediaID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "media", err))
			return
		}

		if err := h.store.Delete(r.Context(), media.FilePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			h.logger.Error().Err(err).Str("key", media.FilePath).Msg("media row deleted but blob removal failed")
		}

		h.responder.WriteJSON(w, deleted("media"))
	}
}
