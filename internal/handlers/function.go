package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/middleware/auth"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/service"
)

type FunctionHandler struct {
	DB    *gorm.DB
	Perms *service.PermissionService
}

func (h *FunctionHandler) List(c echo.Context) error {
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

	var functions []models.Function
	if err := h.DB.Where("f_um_id = ? AND f_active = ?", req.UserID, models.StatusActive).
		Order("function_date DESC, f_id DESC").Find(&functions).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(functions), functions)
}

// Create adds a function. Creating a function is not scoped to an
// existing one, so employees need a wildcard FUNCTION_CREATE grant.
func (h *FunctionHandler) Create(c echo.Context) error {
	var req struct {
		UserID          int64  `json:"userId"`
		FunctionName    string `json:"functionName"`
		FunctionDate    string `json:"functionDate"`
		FirstName       string `json:"firstName"`
		SecondName      string `json:"secondName"`
		Place           string `json:"place"`
		NativePlace     string `json:"nativePlace"`
		InvitationPhoto string `json:"invitationUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.FunctionName == "" {
		return respond.Fail(c, http.StatusBadRequest, "விழா பெயர் தேவை.")
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
		allowed, err := h.Perms.HasPermission(principal.ID, nil, models.PermissionFunctionCreate)
		if err != nil {
			return respond.Error(c, err)
		}
		if !allowed {
			return respond.Fail(c, http.StatusForbidden, msgEmployeeNoFunctions)
		}
	}

	date, err := parseDate(req.FunctionDate)
	if err != nil {
		return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
	}

	fn := models.Function{
		UserID:          req.UserID,
		Name:            req.FunctionName,
		Date:            date,
		FirstName:       req.FirstName,
		SecondName:      req.SecondName,
		Place:           req.Place,
		NativePlace:     req.NativePlace,
		InvitationPhoto: req.InvitationPhoto,
		Active:          models.StatusActive,
	}
	if err := h.DB.Create(&fn).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusCreated, fn)
}

func (h *FunctionHandler) Update(c echo.Context) error {
	var req struct {
		ID              int64  `json:"id"`
		UserID          int64  `json:"userId"`
		FunctionName    string `json:"functionName"`
		FunctionDate    string `json:"functionDate"`
		FirstName       string `json:"firstName"`
		SecondName      string `json:"secondName"`
		Place           string `json:"place"`
		NativePlace     string `json:"nativePlace"`
		InvitationPhoto string `json:"invitationUrl"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var fn models.Function
	if err := h.DB.Where("f_id = ? AND f_um_id = ?", req.ID, req.UserID).
		First(&fn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgFunctionNotFound)
		}
		return respond.Error(c, err)
	}

	updates := map[string]interface{}{
		"function_name":    req.FunctionName,
		"first_name":       req.FirstName,
		"second_name":      req.SecondName,
		"place":            req.Place,
		"native_place":     req.NativePlace,
		"invitation_photo": req.InvitationPhoto,
	}
	if req.FunctionDate != "" {
		date, err := parseDate(req.FunctionDate)
		if err != nil {
			return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
		}
		updates["function_date"] = date
	}
	if err := h.DB.Model(&fn).Updates(updates).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgUpdated)
}

// Delete removes the function and its moi records. Employees never
// delete, whatever their grants say.
func (h *FunctionHandler) Delete(c echo.Context) error {
	principalID, _ := auth.PrincipalID(c)
	if employee, err := service.ActiveEmployee(h.DB, principalID); err != nil {
		return respond.Error(c, err)
	} else if employee != nil {
		return respond.Fail(c, http.StatusForbidden, msgEmployeeNoDelete)
	}

	var fn models.Function
	if err := h.DB.First(&fn, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgFunctionNotFound)
		}
		return respond.Error(c, err)
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mr_function_id = ?", fn.ID).
			Delete(&models.MoiRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&fn).Error
	})
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgDeleted)
}
