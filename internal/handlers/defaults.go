package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
)

// DefaultsHandler serves the dropdown catalogs and the home screen
// totals.
type DefaultsHandler struct {
	DB *gorm.DB
}

func (h *DefaultsHandler) PaymentModes(c echo.Context) error {
	var modes []models.PaymentMode
	if err := h.DB.Where("dp_active = ?", models.StatusActive).
		Order("dp_id ASC").Find(&modes).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(modes), modes)
}

// DefaultFunctions merges the global catalog (userId 0) with the
// caller's own additions.
func (h *DefaultsHandler) DefaultFunctions(c echo.Context) error {
	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var functions []models.DefaultFunction
	if err := h.DB.Where("(mdf_um_id = 0 OR mdf_um_id = ?) AND mdf_active = ?",
		req.UserID, models.StatusActive).
		Order("mdf_id ASC").Find(&functions).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(functions), functions)
}

func (h *DefaultsHandler) CreateDefaultFunction(c echo.Context) error {
	var req struct {
		UserID int64  `json:"userId"`
		Name   string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return respond.Fail(c, http.StatusBadRequest, "விழா பெயர் தேவை.")
	}

	fn := models.DefaultFunction{
		UserID: req.UserID,
		Name:   req.Name,
		Active: models.StatusActive,
	}
	if err := h.DB.Create(&fn).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusCreated, fn)
}

// Totals aggregates the home screen counters across the user's tables.
func (h *DefaultsHandler) Totals(c echo.Context) error {
	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var functionCount, moiCount, moiOutCount, personCount int64
	if err := h.DB.Model(&models.Function{}).
		Where("f_um_id = ? AND f_active = ?", req.UserID, models.StatusActive).
		Count(&functionCount).Error; err != nil {
		return respond.Error(c, err)
	}
	if err := h.DB.Model(&models.MoiRecord{}).
		Where("mr_um_id = ? AND mr_active = ?", req.UserID, models.StatusActive).
		Count(&moiCount).Error; err != nil {
		return respond.Error(c, err)
	}
	if err := h.DB.Model(&models.MoiOutRecord{}).
		Where("mom_user_id = ? AND mom_status = ?", req.UserID, models.StatusActive).
		Count(&moiOutCount).Error; err != nil {
		return respond.Error(c, err)
	}
	if err := h.DB.Model(&models.Person{}).
		Where("mp_um_id = ? AND mp_active = ?", req.UserID, models.StatusActive).
		Count(&personCount).Error; err != nil {
		return respond.Error(c, err)
	}

	var moiAmount, moiOutAmount float64
	row := h.DB.Model(&models.MoiRecord{}).
		Where("mr_um_id = ? AND mr_active = ?", req.UserID, models.StatusActive).
		Select("COALESCE(SUM(mr_amount), 0)").Row()
	if err := row.Scan(&moiAmount); err != nil {
		return respond.Error(c, err)
	}
	row = h.DB.Model(&models.MoiOutRecord{}).
		Where("mom_user_id = ? AND mom_status = ?", req.UserID, models.StatusActive).
		Select("COALESCE(SUM(mom_amount), 0)").Row()
	if err := row.Scan(&moiOutAmount); err != nil {
		return respond.Error(c, err)
	}

	return respond.Success(c, http.StatusOK, map[string]interface{}{
		"functions":    functionCount,
		"moiRecords":   moiCount,
		"moiOutTotal":  moiOutCount,
		"persons":      personCount,
		"moiAmount":    moiAmount,
		"moiOutAmount": moiOutAmount,
	})
}
