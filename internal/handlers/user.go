package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/hash"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/token"
)

const (
	msgUserNotFound = "The specified user does not exist!"
)

type UserHandler struct {
	DB     *gorm.DB
	Tokens *token.Service
}

// Update changes a user's name and mobile. The mobile must stay unique
// across other users.
func (h *UserHandler) Update(c echo.Context) error {
	var req struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Mobile string `json:"mobile"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var other models.User
	if err := h.DB.Where("um_mobile = ? AND um_id <> ?", req.Mobile, req.ID).
		First(&other).Error; err == nil {
		return respond.Fail(c, http.StatusNotFound, "This mobile is already registered!")
	}

	var user models.User
	if err := h.DB.First(&user, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFound)
		}
		return respond.Error(c, err)
	}

	if err := h.DB.Model(&user).Updates(map[string]interface{}{
		"um_full_name": req.Name,
		"um_mobile":    req.Mobile,
	}).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "User details updated successfully.")
}

func (h *UserHandler) Details(c echo.Context) error {
	var user models.User
	if err := h.DB.First(&user, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFound)
		}
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusOK, user)
}

// UpdatePassword verifies the current password before storing the new
// one and stamps the rotation time used by the expiry reminder.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	var req struct {
		ID          int64  `json:"id"`
		Password    string `json:"password"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.First(&user, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFound)
		}
		return respond.Error(c, err)
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return respond.Fail(c, http.StatusNotFound, "The password doesn't match our records.")
	}

	passwordHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return respond.Error(c, err)
	}
	now := time.Now()
	if err := h.DB.Model(&user).Updates(map[string]interface{}{
		"um_password":            passwordHash,
		"um_password_changed_at": now,
	}).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "Your password has been changed successfully.")
}

// ResetPassword replaces the password for a known email without the
// old-password check. The route sits behind the API key gate.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.Where("um_email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "Invalid Email ID!")
		}
		return respond.Error(c, err)
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return respond.Error(c, err)
	}
	now := time.Now()
	if err := h.DB.Model(&user).Updates(map[string]interface{}{
		"um_password":            passwordHash,
		"um_password_changed_at": now,
	}).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "Your password has been changed successfully.")
}

// Delete removes a user permanently and drops any live session.
func (h *UserHandler) Delete(c echo.Context) error {
	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFound)
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Delete(&user).Error; err != nil {
		return respond.Error(c, err)
	}
	if err := h.Tokens.Invalidate(c.Request().Context(), user.ID); err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "User permanently deleted successfully.")
}

// UpdateNotificationToken stores the device token pushes get sent to.
func (h *UserHandler) UpdateNotificationToken(c echo.Context) error {
	var req struct {
		UserID int64  `json:"userId"`
		Token  string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.Token == "" {
		return respond.Fail(c, http.StatusBadRequest, "Notification token is required.")
	}

	var user models.User
	if err := h.DB.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFound)
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Model(&user).Update("um_notification_token", req.Token).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "Notification token updated successfully.")
}
