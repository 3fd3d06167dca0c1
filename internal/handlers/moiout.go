package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/middleware/auth"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/service"
)

// MoiOutHandler serves the gifts the user gave at other people's
// functions, the outbound side of the ledger.
type MoiOutHandler struct {
	DB *gorm.DB
}

func (h *MoiOutHandler) List(c echo.Context) error {
	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	if _, err := service.ResolvePrincipal(h.DB, req.UserID); err != nil {
		if errors.Is(err, service.ErrPrincipalNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFoundTamil)
		}
		return respond.Error(c, err)
	}

	var records []models.MoiOutRecord
	if err := h.DB.Where("mom_user_id = ? AND mom_status = ?", req.UserID, models.StatusActive).
		Order("mom_id DESC").Find(&records).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(records), records)
}

func (h *MoiOutHandler) Create(c echo.Context) error {
	var req struct {
		UserID       int64   `json:"userId"`
		FirstName    string  `json:"firstName"`
		SecondName   string  `json:"secondName"`
		City         string  `json:"city"`
		FunctionDate string  `json:"functionDate"`
		FunctionName string  `json:"functionName"`
		Amount       float64 `json:"amount"`
		Remarks      string  `json:"remarks"`
		Seimurai     *string `json:"seimurai"`
		Things       *string `json:"things"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.FirstName == "" || req.FunctionName == "" {
		return respond.Fail(c, http.StatusBadRequest, "பெயர் மற்றும் விழா பெயர் தேவை.")
	}

	functionDate, err := parseDate(req.FunctionDate)
	if err != nil {
		return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
	}

	record := models.MoiOutRecord{
		UserID:       req.UserID,
		FirstName:    req.FirstName,
		SecondName:   req.SecondName,
		City:         req.City,
		FunctionDate: functionDate,
		FunctionName: req.FunctionName,
		Amount:       req.Amount,
		Remarks:      req.Remarks,
		Seimurai:     req.Seimurai,
		Things:       req.Things,
		Status:       models.StatusActive,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgSaved)
}

func (h *MoiOutHandler) Update(c echo.Context) error {
	var req struct {
		ID           int64   `json:"id"`
		UserID       int64   `json:"userId"`
		FirstName    string  `json:"firstName"`
		SecondName   string  `json:"secondName"`
		City         string  `json:"city"`
		FunctionDate string  `json:"functionDate"`
		FunctionName string  `json:"functionName"`
		Amount       float64 `json:"amount"`
		Remarks      string  `json:"remarks"`
		Seimurai     *string `json:"seimurai"`
		Things       *string `json:"things"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var record models.MoiOutRecord
	if err := h.DB.Where("mom_id = ? AND mom_user_id = ?", req.ID, req.UserID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgRecordNotFound)
		}
		return respond.Error(c, err)
	}

	updates := map[string]interface{}{
		"mom_first_name":    req.FirstName,
		"mom_second_name":   req.SecondName,
		"mom_city":          req.City,
		"mom_function_name": req.FunctionName,
		"mom_amount":        req.Amount,
		"mom_remarks":       req.Remarks,
		"seimurai":          req.Seimurai,
		"things":            req.Things,
	}
	if req.FunctionDate != "" {
		functionDate, err := parseDate(req.FunctionDate)
		if err != nil {
			return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
		}
		updates["mom_function_date"] = functionDate
	}
	if err := h.DB.Model(&record).Updates(updates).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgUpdated)
}

func (h *MoiOutHandler) Delete(c echo.Context) error {
	principalID, _ := auth.PrincipalID(c)
	if employee, err := service.ActiveEmployee(h.DB, principalID); err != nil {
		return respond.Error(c, err)
	} else if employee != nil {
		return respond.Fail(c, http.StatusForbidden, msgEmployeeNoDelete)
	}

	var record models.MoiOutRecord
	if err := h.DB.First(&record, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgRecordNotFound)
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Delete(&record).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgDeleted)
}

// parseDate accepts the two formats the mobile clients send.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
