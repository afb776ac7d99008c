package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/halvard/cms/internal/storage"
)

func TestUploadPresign(t *testing.T) {
	store := &mockPresigner{}
	store.On("PresignUpload", mock.Anything, "photo.jpg", "image/jpeg").
		Return(&storage.Upload{
			Key:       "media/abc/photo.jpg",
			URL:       "https://s3.example.net/cms-media/media/abc/photo.jpg?sig=x",
			ExpiresAt: time.Now().Add(15 * time.Minute),
		}, nil)

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/api/v1/uploads/presign",
		map[string]string{"filename": "photo.jpg", "content_type": "image/jpeg"})
	NewUpload(store).Presign(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code)
	var up storage.Upload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &up))
	assert.Equal(t, "media/abc/photo.jpg", up.Key)
	store.AssertExpectations(t)
}

func TestUploadPresign_MissingFields(t *testing.T) {
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/api/v1/uploads/presign", map[string]string{"filename": "photo.jpg"})
	NewUpload(&mockPresigner{}).Presign(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadPresign_InvalidJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	r := newRequestRaw(http.MethodPost, "/api/v1/uploads/presign", "{bad")
	NewUpload(&mockPresigner{}).Presign(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadPresign_StoreError(t *testing.T) {
	store := &mockPresigner{}
	store.On("PresignUpload", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("s3 unreachable"))

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodPost, "/api/v1/uploads/presign",
		map[string]string{"filename": "a.png", "content_type": "image/png"})
	NewUpload(store).Presign(rec, r)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUploadDownload(t *testing.T) {
	store := &mockPresigner{}
	store.On("PresignDownload", mock.Anything, "media/abc/photo.jpg").
		Return(&storage.Upload{Key: "media/abc/photo.jpg", URL: "https://example.net/signed"}, nil)

	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/api/v1/uploads/download?key=media%2Fabc%2Fphoto.jpg", nil)
	NewUpload(store).Download(rec, r)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUploadDownload_MissingKey(t *testing.T) {
	rec := httptest.NewRecorder()
	r := newRequest(http.MethodGet, "/api/v1/uploads/download", nil)
	NewUpload(&mockPresigner{}).Download(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
