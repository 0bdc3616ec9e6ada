package handler

import (
	"context"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"

	"github.com/routinnet/routix-platform-ai/internal/domain"
	"github.com/routinnet/routix-platform-ai/internal/storage"
)

// FileHandler handles reference image uploads.
type FileHandler struct {
	store  *storage.LocalStore
	logger *slog.Logger
}

func NewFileHandler(store *storage.LocalStore, logger *slog.Logger) *FileHandler {
	return &FileHandler{store: store, logger: logger}
}

// Upload handles POST /files. Multipart field name is "file".
func (h *FileHandler) Upload(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		ErrorResponse(c, domain.NewInvalidInputError("missing multipart field 'file'"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error("failed to open upload", "error", err)
		ErrorResponse(c, domain.NewInternalError(err))
		return
	}
	defer f.Close()

	stored, err := h.store.Save(userID, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
	if err != nil {
		h.logger.Warn("upload rejected", "error", err, "user_id", userID, "filename", fh.Filename)
		ErrorResponse(c, err)
		return
	}

	CreatedResponse(c, stored)
}

// Delete handles DELETE /files/:id.
func (h *FileHandler) Delete(ctx context.Context, c *app.RequestContext) {
	userID, ok := currentUserID(c)
	if !ok {
		ErrorResponse(c, domain.ErrUnauthorized)
		return
	}

	if err := h.store.Delete(userID, c.Param("id")); err != nil {
		ErrorResponse(c, err)
		return
	}

	NoContentResponse(c)
}
