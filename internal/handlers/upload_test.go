package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func multipartUpload(t *testing.T, userID, subPath, filename string, content []byte) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("userId", userID))
	require.NoError(t, w.WriteField("path", subPath))
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/apis/uploads/saveFiles", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	return rec, c
}

func TestUploadSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	h := &UploadHandler{Dir: dir}

	rec, c := multipartUpload(t, "42", "invitations", "photo.jpg", []byte("jpeg-bytes"))
	require.NoError(t, h.Save(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "uploads/42/invitations/photo.jpg")

	saved := filepath.Join(dir, "42", "invitations", "photo.jpg")
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg-bytes"), data)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "42", "invitations"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	env := &testEnv{T: t, E: echo.New()}
	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/uploads/delete", map[string]string{
		"userId": "42", "path": "invitations", "filename": "photo.jpg",
	})
	require.NoError(t, h.Delete(c2))
	require.Equal(t, http.StatusOK, rec2.Code)
	_, err = os.Stat(saved)
	require.True(t, os.IsNotExist(err))
}

func TestUploadRejectsTraversal(t *testing.T) {
	h := &UploadHandler{Dir: t.TempDir()}

	rec, c := multipartUpload(t, "..", "invitations", "photo.jpg", []byte("x"))
	require.NoError(t, h.Save(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec2, c2 := multipartUpload(t, "42", "../../etc", "photo.jpg", []byte("x"))
	require.NoError(t, h.Save(c2))
	require.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestUploadMissingFields(t *testing.T) {
	h := &UploadHandler{Dir: t.TempDir()}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/apis/uploads/saveFiles", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Save(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
