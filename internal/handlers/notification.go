package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/notify"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
)

type NotificationHandler struct {
	DB   *gorm.DB
	Push *notify.PushSender
}

// Send pushes straight to the given device token and logs the
// notification when it belongs to a known user.
func (h *NotificationHandler) Send(c echo.Context) error {
	var req struct {
		UserID int64  `json:"userId"`
		Token  string `json:"token"`
		Title  string `json:"title"`
		Body   string `json:"body"`
		Type   string `json:"type"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.Token == "" || req.Title == "" {
		return respond.Fail(c, http.StatusBadRequest, "Token and title are required.")
	}
	if req.Type == "" {
		req.Type = models.NotificationGeneral
	}
	if !models.IsValidNotificationType(req.Type) {
		return respond.Fail(c, http.StatusBadRequest, "Invalid notification type.")
	}

	if err := h.Push.Send(c.Request().Context(), req.Token, req.Title, req.Body); err != nil {
		return respond.Error(c, err)
	}

	if req.UserID > 0 {
		notification := models.Notification{
			UserID: req.UserID,
			Title:  req.Title,
			Body:   req.Body,
			Type:   req.Type,
			Read:   models.StatusInactive,
			Active: models.StatusActive,
		}
		if err := h.DB.Create(&notification).Error; err != nil {
			c.Logger().Errorf("store notification: %v", err)
		}
	}

	return respond.Message(c, http.StatusOK, "Notification sent successfully.")
}

func (h *NotificationHandler) ListByUser(c echo.Context) error {
	var notifications []models.Notification
	if err := h.DB.Where("n_um_id = ? AND n_active = ?", c.Param("id"), models.StatusActive).
		Order("n_id DESC").Find(&notifications).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(notifications), notifications)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	var notification models.Notification
	if err := h.DB.First(&notification, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "Notification not found.")
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Model(&notification).Update("n_read", models.StatusActive).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "Notification marked as read.")
}
