package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
)

// UpcomingHandler tracks invitations the user plans to attend. Status
// is derived from the date: "upcoming" until the day passes, then the
// nightly sweep flips it to "completed".
type UpcomingHandler struct {
	DB *gorm.DB
}

func statusForDate(d time.Time) string {
	today := time.Now().Truncate(24 * time.Hour)
	if d.Before(today) {
		return "completed"
	}
	return "upcoming"
}

func (h *UpcomingHandler) List(c echo.Context) error {
	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var functions []models.UpcomingFunction
	if err := h.DB.Where("uf_user_id = ?", req.UserID).
		Order("uf_date ASC").Find(&functions).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(functions), functions)
}

func (h *UpcomingHandler) Create(c echo.Context) error {
	var req struct {
		UserID        int64  `json:"userId"`
		Date          string `json:"date"`
		FunctionName  string `json:"functionName"`
		Place         string `json:"place"`
		InvitationURL string `json:"invitationUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.FunctionName == "" || req.Date == "" {
		return respond.Fail(c, http.StatusBadRequest, "விழா பெயர் மற்றும் தேதி தேவை.")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
	}

	status := statusForDate(date)
	fn := models.UpcomingFunction{
		UserID:        req.UserID,
		Date:          date,
		Name:          req.FunctionName,
		Place:         req.Place,
		InvitationURL: req.InvitationURL,
		Status:        &status,
	}
	if err := h.DB.Create(&fn).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusCreated, fn)
}

func (h *UpcomingHandler) Update(c echo.Context) error {
	var req struct {
		ID            int64  `json:"id"`
		UserID        int64  `json:"userId"`
		Date          string `json:"date"`
		FunctionName  string `json:"functionName"`
		Place         string `json:"place"`
		InvitationURL string `json:"invitationUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var fn models.UpcomingFunction
	if err := h.DB.Where("uf_id = ? AND uf_user_id = ?", req.ID, req.UserID).
		First(&fn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgFunctionNotFound)
		}
		return respond.Error(c, err)
	}

	updates := map[string]interface{}{
		"uf_name":           req.FunctionName,
		"uf_place":          req.Place,
		"uf_invitation_url": req.InvitationURL,
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
		}
		updates["uf_date"] = date
		updates["status"] = statusForDate(date)
	}
	if err := h.DB.Model(&fn).Updates(updates).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgUpdated)
}

func (h *UpcomingHandler) Delete(c echo.Context) error {
	var fn models.UpcomingFunction
	if err := h.DB.First(&fn, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgFunctionNotFound)
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Delete(&fn).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgDeleted)
}
