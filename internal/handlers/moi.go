package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/middleware/auth"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/mykafka"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/service"
)

const (
	msgUserNotFoundTamil   = "குறிப்பிடப்பட்ட பயனர் இல்லை!"
	msgSaved               = "உங்கள் தரவு வெற்றிகரமாக சேமிக்கப்பட்டது."
	msgUpdated             = "உங்கள் தரவு வெற்றிகரமாக புதுப்பிக்கப்பட்டது."
	msgDeleted             = "பொருள் வெற்றிகரமாக நீக்கப்பட்டது."
	msgRecordNotFound      = "பதிவு கிடைக்கவில்லை."
	msgEmployeeNoDelete    = "பணியாளர்களுக்கு நீக்கும் அனுமதி இல்லை. நிர்வாகியைத் தொடர்பு கொள்ளவும்."
	msgEmployeeNoMoi       = "மொய் பதிவு உருவாக்க அனுமதி இல்லை. நிர்வாகியைத் தொடர்பு கொள்ளவும்."
	msgEmployeeNoFunctions = "விழா உருவாக்க அனுமதி இல்லை. நிர்வாகியைத் தொடர்பு கொள்ளவும்."
)

type MoiHandler struct {
	DB       *gorm.DB
	Perms    *service.PermissionService
	Producer *mykafka.Producer
}

type moiListRow struct {
	ID           int64      `json:"id"`
	FunctionID   int64      `json:"functionId"`
	FunctionName string     `json:"functionName"`
	FunctionDate *time.Time `json:"-"`
	FirstName    string     `json:"firstName"`
	SecondName   string     `json:"secondName"`
	CityName     string     `json:"cityName"`
	Amount       float64    `json:"amount"`
	Occupation   string     `json:"occupation"`
	Remarks      string     `json:"remarks"`
	Seimurai     *string    `json:"seimurai"`
	Things       *string    `json:"things"`
	DateText     string     `json:"functionDate"`
}

// List returns the caller's moi records joined with the function they
// belong to, newest first.
func (h *MoiHandler) List(c echo.Context) error {
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

	var rows []moiListRow
	err := h.DB.Model(&models.MoiRecord{}).
		Select(`gp_moi_master_records.mr_id AS id,
			gp_moi_master_records.mr_function_id AS function_id,
			gp_moi_functions.function_name AS function_name,
			gp_moi_functions.function_date AS function_date,
			gp_moi_master_records.mr_first_name AS first_name,
			gp_moi_master_records.mr_second_name AS second_name,
			gp_moi_master_records.mr_city_id AS city_name,
			gp_moi_master_records.mr_amount AS amount,
			gp_moi_master_records.mr_occupation AS occupation,
			gp_moi_master_records.mr_remarks AS remarks,
			gp_moi_master_records.seimurai AS seimurai,
			gp_moi_master_records.things AS things`).
		Joins("LEFT JOIN gp_moi_functions ON gp_moi_functions.f_id = gp_moi_master_records.mr_function_id").
		Where("gp_moi_master_records.mr_um_id = ? AND gp_moi_master_records.mr_active = ?",
			req.UserID, models.StatusActive).
		Order("gp_moi_master_records.mr_id DESC").
		Scan(&rows).Error
	if err != nil {
		return respond.Error(c, err)
	}
	for i := range rows {
		if rows[i].FunctionDate != nil {
			rows[i].DateText = rows[i].FunctionDate.Format("02-Jan-2006")
		}
	}
	return respond.SuccessList(c, http.StatusOK, len(rows), rows)
}

// Create inserts a moi record. Employees need an active MOI_INSERT
// grant covering the target function; users write their own data
// freely.
func (h *MoiHandler) Create(c echo.Context) error {
	var req struct {
		UserID     int64   `json:"userId"`
		FunctionID int64   `json:"functionId"`
		City       string  `json:"cityName"`
		FirstName  string  `json:"firstName"`
		SecondName string  `json:"secondName"`
		Amount     float64 `json:"amount"`
		Occupation string  `json:"occupation"`
		Remarks    string  `json:"remarks"`
		Seimurai   *string `json:"seimurai"`
		Things     *string `json:"things"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	principalID, _ := auth.PrincipalID(c)
	principal, err := service.ResolvePrincipal(h.DB, principalID)
	if err != nil {
		if errors.Is(err, service.ErrPrincipalNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFoundTamil)
		}
		return respond.Error(c, err)
	}
	if principal.Role == service.RoleEmployee {
		var scope *int64
		if req.FunctionID > 0 {
			scope = &req.FunctionID
		}
		allowed, err := h.Perms.HasPermission(principal.ID, scope, models.PermissionMoiInsert)
		if err != nil {
			return respond.Error(c, err)
		}
		if !allowed {
			return respond.Fail(c, http.StatusForbidden, msgEmployeeNoMoi)
		}
	}

	record := models.MoiRecord{
		UserID:     req.UserID,
		FunctionID: req.FunctionID,
		City:       req.City,
		FirstName:  req.FirstName,
		SecondName: req.SecondName,
		Amount:     req.Amount,
		Occupation: req.Occupation,
		Remarks:    req.Remarks,
		Seimurai:   req.Seimurai,
		Things:     req.Things,
		Active:     models.StatusActive,
	}
	if err := h.DB.Create(&record).Error; err != nil {
		return respond.Error(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":     "moi_record_created",
		"userId":   record.UserID,
		"recordId": record.ID,
	}, record.UserID)

	return respond.Message(c, http.StatusOK, msgSaved)
}

func (h *MoiHandler) Update(c echo.Context) error {
	var req struct {
		ID         int64   `json:"id"`
		UserID     int64   `json:"userId"`
		FunctionID int64   `json:"functionId"`
		City       string  `json:"cityName"`
		FirstName  string  `json:"firstName"`
		SecondName string  `json:"secondName"`
		Amount     float64 `json:"amount"`
		Occupation string  `json:"occupation"`
		Remarks    string  `json:"remarks"`
		Seimurai   *string `json:"seimurai"`
		Things     *string `json:"things"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var user models.User
	if err := h.DB.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgUserNotFoundTamil)
		}
		return respond.Error(c, err)
	}

	var record models.MoiRecord
	if err := h.DB.Where("mr_id = ? AND mr_um_id = ?", req.ID, req.UserID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgRecordNotFound)
		}
		return respond.Error(c, err)
	}

	if err := h.DB.Model(&record).Updates(map[string]interface{}{
		"mr_function_id": req.FunctionID,
		"mr_city_id":     req.City,
		"mr_first_name":  req.FirstName,
		"mr_second_name": req.SecondName,
		"mr_amount":      req.Amount,
		"mr_occupation":  req.Occupation,
		"mr_remarks":     req.Remarks,
		"seimurai":       req.Seimurai,
		"things":         req.Things,
	}).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgUpdated)
}

// Delete removes a record for good. Employees are banned from every
// delete regardless of grants; only the owner or an admin gets here.
func (h *MoiHandler) Delete(c echo.Context) error {
	principalID, _ := auth.PrincipalID(c)
	if employee, err := service.ActiveEmployee(h.DB, principalID); err != nil {
		return respond.Error(c, err)
	} else if employee != nil {
		return respond.Fail(c, http.StatusForbidden, msgEmployeeNoDelete)
	}

	var record models.MoiRecord
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

func (h *MoiHandler) publish(c echo.Context, event map[string]interface{}, key int64) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicMoiEvents, fmt.Sprint(key), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
