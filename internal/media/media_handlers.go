package media

import (
	"context"
	"io"
	"net/http"

	"campusfeed/internal/common"
	"campusfeed/internal/dbmongo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Downloader is the read side of the GridFS store.
type Downloader interface {
	DownloadFile(ctx context.Context, fileID string) (io.Reader, *dbmongo.MediaFile, error)
}

// MediaHandler streams stored attachments. Media URLs are unguessable
// ObjectID hexes, so the download route stays public.
type MediaHandler struct {
	store  Downloader
	logger *zap.Logger
}

func NewMediaHandler(store Downloader, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{store: store, logger: logger}
}

func (h *MediaHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/media/{fileID}", h.Download).Methods(http.MethodGet)
}

func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileID"]

	stream, file, err := h.store.DownloadFile(r.Context(), fileID)
	if err != nil {
		common.WriteError(w, http.StatusNotFound, "file not found")
		return
	}
	if closer, ok := stream.(io.Closer); ok {
		defer closer.Close()
	}

	if file.MimeType != "" {
		w.Header().Set("Content-Type", file.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, stream); err != nil {
		h.logger.Warn("media stream interrupted", zap.String("file_id", fileID), zap.Error(err))
	}
}
