package handlers

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/hash"
	"github.com/prasowlabs/moi-kanakku/internal/middleware/auth"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/service"
)

const (
	msgEmployeeNotFound = "பணியாளர் கிடைக்கவில்லை."
	msgFunctionNotFound = "விழா கிடைக்கவில்லை."
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^\d{10}$`)
)

type EmployeeHandler struct {
	DB    *gorm.DB
	Perms *service.PermissionService
}

// Create registers an employee after validating the contact fields the
// mobile app collects.
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	if req.Name == "" || req.Email == "" || req.Mobile == "" || req.Password == "" {
		return respond.Fail(c, http.StatusBadRequest, "அனைத்து விவரங்களும் தேவை.")
	}
	if !emailPattern.MatchString(req.Email) {
		return respond.Fail(c, http.StatusBadRequest, "சரியான மின்னஞ்சல் முகவரியை உள்ளிடவும்.")
	}
	if !mobilePattern.MatchString(req.Mobile) {
		return respond.Fail(c, http.StatusBadRequest, "கைபேசி எண் 10 இலக்கங்களாக இருக்க வேண்டும்.")
	}

	var existing models.Employee
	if err := h.DB.Where("em_email = ?", req.Email).First(&existing).Error; err == nil {
		return respond.Fail(c, http.StatusBadRequest, "இந்த மின்னஞ்சல் ஏற்கனவே பதிவு செய்யப்பட்டுள்ளது.")
	}
	if err := h.DB.Where("em_mobile = ?", req.Mobile).First(&existing).Error; err == nil {
		return respond.Fail(c, http.StatusBadRequest, "இந்த கைபேசி எண் ஏற்கனவே பதிவு செய்யப்பட்டுள்ளது.")
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return respond.Error(c, err)
	}
	employee := models.Employee{
		FullName:     req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: passwordHash,
		Status:       models.StatusActive,
	}
	if err := h.DB.Create(&employee).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusCreated, employee)
}

func (h *EmployeeHandler) GetAll(c echo.Context) error {
	var employees []models.Employee
	if err := h.DB.Order("em_id DESC").Find(&employees).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(employees), employees)
}

func (h *EmployeeHandler) GetByID(c echo.Context) error {
	var employee models.Employee
	if err := h.DB.First(&employee, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgEmployeeNotFound)
		}
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusOK, employee)
}

func (h *EmployeeHandler) Update(c echo.Context) error {
	var req struct {
		ID     int64  `param:"id" json:"id"`
		Name   string `json:"name"`
		Email  string `json:"email"`
		Mobile string `json:"mobile"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.Email != "" && !emailPattern.MatchString(req.Email) {
		return respond.Fail(c, http.StatusBadRequest, "சரியான மின்னஞ்சல் முகவரியை உள்ளிடவும்.")
	}
	if req.Mobile != "" && !mobilePattern.MatchString(req.Mobile) {
		return respond.Fail(c, http.StatusBadRequest, "கைபேசி எண் 10 இலக்கங்களாக இருக்க வேண்டும்.")
	}

	var employee models.Employee
	if err := h.DB.First(&employee, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgEmployeeNotFound)
		}
		return respond.Error(c, err)
	}

	var other models.Employee
	if req.Email != "" {
		if err := h.DB.Where("em_email = ? AND em_id <> ?", req.Email, req.ID).
			First(&other).Error; err == nil {
			return respond.Fail(c, http.StatusBadRequest, "இந்த மின்னஞ்சல் ஏற்கனவே பதிவு செய்யப்பட்டுள்ளது.")
		}
	}
	if req.Mobile != "" {
		if err := h.DB.Where("em_mobile = ? AND em_id <> ?", req.Mobile, req.ID).
			First(&other).Error; err == nil {
			return respond.Fail(c, http.StatusBadRequest, "இந்த கைபேசி எண் ஏற்கனவே பதிவு செய்யப்பட்டுள்ளது.")
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["em_full_name"] = req.Name
	}
	if req.Email != "" {
		updates["em_email"] = req.Email
	}
	if req.Mobile != "" {
		updates["em_mobile"] = req.Mobile
	}
	if len(updates) > 0 {
		if err := h.DB.Model(&employee).Updates(updates).Error; err != nil {
			return respond.Error(c, err)
		}
	}
	return respond.Message(c, http.StatusOK, "பணியாளர் விவரங்கள் புதுப்பிக்கப்பட்டன.")
}

// UpdateStatus flips an employee between active and inactive. An
// inactive employee keeps any live session but fails every
// authorization check.
func (h *EmployeeHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		ID     int64  `param:"id" json:"id"`
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.Status != models.StatusActive && req.Status != models.StatusInactive {
		return respond.Fail(c, http.StatusBadRequest, "நிலை Y அல்லது N ஆக இருக்க வேண்டும்.")
	}

	var employee models.Employee
	if err := h.DB.First(&employee, req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgEmployeeNotFound)
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Model(&employee).Update("em_status", req.Status).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, "பணியாளர் நிலை புதுப்பிக்கப்பட்டது.")
}

// AssignPermission grants an employee a permission type, either scoped
// to one function or as a wildcard when no functionId is given.
func (h *EmployeeHandler) AssignPermission(c echo.Context) error {
	var req struct {
		EmployeeID     int64  `json:"employeeId"`
		FunctionID     *int64 `json:"functionId"`
		PermissionType string `json:"permissionType"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.EmployeeID == 0 || req.PermissionType == "" {
		return respond.Fail(c, http.StatusBadRequest, "பணியாளர் மற்றும் அனுமதி வகை தேவை.")
	}
	if req.PermissionType != models.PermissionMoiInsert && req.PermissionType != models.PermissionFunctionCreate {
		return respond.Fail(c, http.StatusBadRequest, "தவறான அனுமதி வகை.")
	}

	var employee models.Employee
	if err := h.DB.Where("em_id = ? AND em_status = ?", req.EmployeeID, models.StatusActive).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "பணியாளர் கிடைக்கவில்லை அல்லது செயலில் இல்லை.")
		}
		return respond.Error(c, err)
	}
	if req.FunctionID != nil {
		var fn models.Function
		if err := h.DB.Where("f_id = ? AND f_active = ?", *req.FunctionID, models.StatusActive).
			First(&fn).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return respond.Fail(c, http.StatusNotFound, msgFunctionNotFound)
			}
			return respond.Error(c, err)
		}
	}

	actorID, _ := auth.PrincipalID(c)
	grant, err := h.Perms.Assign(req.EmployeeID, req.FunctionID, req.PermissionType, actorID)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusCreated, grant)
}

// CancelPermission revokes a grant. Cancellation is one way, a
// cancelled grant can only be replaced by a new Assign.
func (h *EmployeeHandler) CancelPermission(c echo.Context) error {
	var req struct {
		PermissionID int64 `json:"permissionId"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.PermissionID == 0 {
		return respond.Fail(c, http.StatusBadRequest, "அனுமதி எண் தேவை.")
	}

	actorID, _ := auth.PrincipalID(c)
	if err := h.Perms.Cancel(req.PermissionID, actorID); err != nil {
		switch {
		case errors.Is(err, service.ErrGrantNotFound):
			return respond.Fail(c, http.StatusNotFound, "அனுமதி கிடைக்கவில்லை.")
		case errors.Is(err, service.ErrGrantCancelled):
			return respond.Fail(c, http.StatusBadRequest, "இந்த அனுமதி ஏற்கனவே ரத்து செய்யப்பட்டது.")
		default:
			return respond.Error(c, err)
		}
	}
	return respond.Message(c, http.StatusOK, "அனுமதி ரத்து செய்யப்பட்டது.")
}

func (h *EmployeeHandler) Permissions(c echo.Context) error {
	var employee models.Employee
	if err := h.DB.First(&employee, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgEmployeeNotFound)
		}
		return respond.Error(c, err)
	}
	grants, err := h.Perms.EmployeeGrants(employee.ID)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(grants), grants)
}

func (h *EmployeeHandler) AllPermissions(c echo.Context) error {
	grants, err := h.Perms.AllGrants()
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(grants), grants)
}
