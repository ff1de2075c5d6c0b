package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkifle/portfolio-backend/errs"
	"github.com/mkifle/portfolio-backend/services"
)

const maxImageBytes int64 = 5 << 20

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, contentType string, body io.Reader) (string, error)
}

type uploadHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     ImageUploader
}

func newUploadHandler(store ImageUploader, hideDetails bool) *uploadHandler {
	if store == nil {
		return nil
	}
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return &uploadHandler{
		responder: NewResponder(logger, hideDetails),
		logger:    logger,
		store:     store,
	}
}

type uploadResult struct {
	URL string `json:"url"`
}

// uploadImage accepts a multipart "image" field and returns the stored URL
// @Summary Upload a project image
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope "Missing or unsupported image"
// @Failure 413 {object} Envelope "Image too large"
// @Router /api/uploads [post]
func (h *uploadHandler) uploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+(64<<10))

		file, _, err := r.FormFile("image")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxImageBytes))
				return
			}
			h.responder.WriteError(w, errs.NewBadRequestError("Image file is required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
		if err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("image", err))
			return
		}
		if int64(len(data)) > maxImageBytes {
			h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxImageBytes))
			return
		}

		contentType := http.DetectContentType(data)
		if bytes.Contains(data[:min(len(data), 512)], []byte("<svg")) {
			contentType = "image/svg+xml"
		}
		if _, ok := services.AllowedImageTypes[contentType]; !ok {
			h.responder.WriteError(w, errs.NewBadRequestError("Unsupported image type"))
			return
		}

		url, err := h.store.Upload(r.Context(), contentType, bytes.NewReader(data))
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause(internalErrorMessage, err))
			return
		}

		h.logger.Info().Str("url", url).Msg("Image uploaded")
		h.responder.WriteData(w, http.StatusCreated, "Image uploaded successfully", uploadResult{URL: url})
	}
}
