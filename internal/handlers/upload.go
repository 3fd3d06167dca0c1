package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prasowlabs/moi-kanakku/internal/respond"
)

// MaxUploadSize caps invitation photos at 5MB.
const MaxUploadSize = 5 << 20

// UploadHandler stores files under <Dir>/<userId>/<path>/ with the
// original filename. Writes go to a temp file first so a failed upload
// never leaves a partial file in place.
type UploadHandler struct {
	Dir string
}

func (h *UploadHandler) Save(c echo.Context) error {
	userID := strings.TrimSpace(c.FormValue("userId"))
	subPath := strings.TrimSpace(c.FormValue("path"))
	if userID == "" || subPath == "" {
		return respond.Fail(c, http.StatusBadRequest, "பயனர் எண் மற்றும் பாதை தேவை.")
	}
	if !safePathSegment(userID) || !safePathSegment(subPath) {
		return respond.Fail(c, http.StatusBadRequest, "தவறான பாதை.")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return respond.Fail(c, http.StatusBadRequest, "கோப்பு தேவை.")
	}
	if file.Size > MaxUploadSize {
		return respond.Fail(c, http.StatusBadRequest, "கோப்பு அளவு 5MB-ஐ விட அதிகமாக இருக்கக்கூடாது.")
	}

	filename := filepath.Base(file.Filename)
	if filename == "." || filename == string(filepath.Separator) {
		return respond.Fail(c, http.StatusBadRequest, "தவறான கோப்பு பெயர்.")
	}

	targetDir := filepath.Join(h.Dir, userID, subPath)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return respond.Error(c, err)
	}

	src, err := file.Open()
	if err != nil {
		return respond.Error(c, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(targetDir, ".upload-*")
	if err != nil {
		return respond.Error(c, err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, io.LimitReader(src, MaxUploadSize)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return respond.Error(c, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return respond.Error(c, err)
	}

	target := filepath.Join(targetDir, filename)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return respond.Error(c, err)
	}

	return respond.Success(c, http.StatusOK, map[string]interface{}{
		"path": fmt.Sprintf("uploads/%s/%s/%s", userID, subPath, filename),
	})
}

func (h *UploadHandler) Delete(c echo.Context) error {
	var req struct {
		UserID   string `json:"userId"`
		Path     string `json:"path"`
		Filename string `json:"filename"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.UserID == "" || req.Path == "" || req.Filename == "" {
		return respond.Fail(c, http.StatusBadRequest, "பயனர் எண், பாதை மற்றும் கோப்பு பெயர் தேவை.")
	}
	if !safePathSegment(req.UserID) || !safePathSegment(req.Path) {
		return respond.Fail(c, http.StatusBadRequest, "தவறான பாதை.")
	}

	target := filepath.Join(h.Dir, req.UserID, req.Path, filepath.Base(req.Filename))
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return respond.Fail(c, http.StatusNotFound, "கோப்பு கிடைக்கவில்லை.")
		}
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgDeleted)
}

// safePathSegment rejects traversal attempts in user-supplied path
// parts.
func safePathSegment(s string) bool {
	if strings.Contains(s, "..") {
		return false
	}
	return !strings.ContainsAny(s, `/\`)
}
