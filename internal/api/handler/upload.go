package handler

import (
	"context"
	"net/http"

	"github.com/halvard/cms/internal/api/request"
	"github.com/halvard/cms/internal/api/response"
	"github.com/halvard/cms/internal/storage"
)

// Presigner is the slice of the media store the upload handler needs.
type Presigner interface {
	PresignUpload(ctx context.Context, filename, contentType string) (*storage.Upload, error)
	PresignDownload(ctx context.Context, key string) (*storage.Upload, error)
}

type Upload struct {
	store Presigner
}

func NewUpload(store Presigner) *Upload {
	return &Upload{store: store}
}

func (h *Upload) Presign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filename    string `json:"filename" validate:"required"`
		ContentType string `json:"content_type" validate:"required"`
	}
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	up, err := h.store.PresignUpload(r.Context(), req.Filename, req.ContentType)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, up)
}

func (h *Upload) Download(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		response.WriteError(w, http.StatusBadRequest, "missing required parameter key")
		return
	}

	up, err := h.store.PresignDownload(r.Context(), key)
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, up)
}
