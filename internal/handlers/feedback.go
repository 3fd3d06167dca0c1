package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/service"
)

type FeedbackHandler struct {
	DB *gorm.DB
}

func (h *FeedbackHandler) Create(c echo.Context) error {
	var req struct {
		UserID    int64  `json:"userId"`
		Feedbacks string `json:"feedbacks"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.Feedbacks == "" {
		return respond.Fail(c, http.StatusBadRequest, "கருத்து தேவை.")
	}

	if _, err := service.ResolvePrincipal(h.DB, req.UserID); err != nil {
		if errors.Is(err, service.ErrPrincipalNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFoundTamil)
		}
		return respond.Error(c, err)
	}

	feedback := models.Feedback{
		UserID:    req.UserID,
		Feedbacks: req.Feedbacks,
	}
	if err := h.DB.Create(&feedback).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "உங்கள் கருத்து வெற்றிகரமாக சமர்ப்பிக்கப்பட்டது.")
}

func (h *FeedbackHandler) ListByUser(c echo.Context) error {
	var feedbacks []models.Feedback
	if err := h.DB.Where("user_id = ?", c.Param("id")).
		Order("id DESC").Find(&feedbacks).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(feedbacks), feedbacks)
}
