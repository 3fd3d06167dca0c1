package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/prasowlabs/moi-kanakku/internal/es"
	"github.com/prasowlabs/moi-kanakku/internal/models"
	"github.com/prasowlabs/moi-kanakku/internal/respond"
	"github.com/prasowlabs/moi-kanakku/internal/service"
	"github.com/prasowlabs/moi-kanakku/internal/service/search"

	"github.com/elastic/go-elasticsearch/v9"
)

type PersonHandler struct {
	DB *gorm.DB
	ES *elasticsearch.Client
}

// List returns the user's persons, optionally filtered with a LIKE
// search over the name, city and mobile columns. Full-text search runs
// through the Elasticsearch route instead.
func (h *PersonHandler) List(c echo.Context) error {
	var req struct {
		UserID int64  `json:"userId"`
		Search string `json:"search"`
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

	q := h.DB.Where("mp_um_id = ? AND mp_active = ?", req.UserID, models.StatusActive)
	if req.Search != "" {
		like := "%" + req.Search + "%"
		q = q.Where("mp_first_name LIKE ? OR mp_second_name LIKE ? OR mp_city LIKE ? OR mp_mobile LIKE ?",
			like, like, like, like)
	}

	var persons []models.Person
	if err := q.Order("mp_id DESC").Find(&persons).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(persons), persons)
}

// Create inserts a person unless the same name/mobile combination
// already exists for this user.
func (h *PersonHandler) Create(c echo.Context) error {
	var req struct {
		UserID     int64  `json:"userId"`
		FirstName  string `json:"firstName"`
		SecondName string `json:"secondName"`
		Business   string `json:"business"`
		City       string `json:"city"`
		Mobile     string `json:"mobile"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.FirstName == "" {
		return respond.Fail(c, http.StatusBadRequest, "முதல் பெயர் தேவை.")
	}

	var dupe models.Person
	if err := h.DB.Where(
		"mp_um_id = ? AND mp_first_name = ? AND mp_second_name = ? AND mp_mobile = ? AND mp_active = ?",
		req.UserID, req.FirstName, req.SecondName, req.Mobile, models.StatusActive).
		First(&dupe).Error; err == nil {
		return respond.Fail(c, http.StatusBadRequest, "இந்த நபர் ஏற்கனவே பதிவு செய்யப்பட்டுள்ளார்.")
	}

	person := models.Person{
		UserID:     req.UserID,
		FirstName:  req.FirstName,
		SecondName: req.SecondName,
		Business:   req.Business,
		City:       req.City,
		Mobile:     req.Mobile,
		Active:     models.StatusActive,
	}
	if err := h.DB.Create(&person).Error; err != nil {
		return respond.Error(c, err)
	}

	// Index for full-text search; a miss here never fails the write.
	if err := search.IndexPerson(c.Request().Context(), h.ES, es.PersonIndex, &person); err != nil {
		c.Logger().Errorf("ES index person %d: %v", person.ID, err)
	}

	return respond.Success(c, http.StatusCreated, person)
}

// Details returns the most recently added active person for a user,
// shown on the app home screen.
func (h *PersonHandler) Details(c echo.Context) error {
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

	var person models.Person
	if err := h.DB.Where("mp_um_id = ? AND mp_active = ?", req.UserID, models.StatusActive).
		Order("mp_create_dt DESC").First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "நபர் விவரங்கள் கிடைக்கவில்லை.")
		}
		return respond.Error(c, err)
	}

	return respond.Success(c, http.StatusOK, echo.Map{
		"id":         person.ID,
		"firstName":  person.FirstName,
		"secondName": person.SecondName,
		"business":   person.Business,
		"city":       person.City,
		"mobile":     person.Mobile,
	})
}

func (h *PersonHandler) GetByID(c echo.Context) error {
	var person models.Person
	if err := h.DB.Where("mp_id = ? AND mp_active = ?", c.Param("id"), models.StatusActive).
		First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "நபர் கிடைக்கவில்லை.")
		}
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusOK, person)
}

func (h *PersonHandler) Update(c echo.Context) error {
	var req struct {
		ID         int64  `json:"id"`
		UserID     int64  `json:"userId"`
		FirstName  string `json:"firstName"`
		SecondName string `json:"secondName"`
		Business   string `json:"business"`
		City       string `json:"city"`
		Mobile     string `json:"mobile"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var person models.Person
	if err := h.DB.Where("mp_id = ? AND mp_um_id = ?", req.ID, req.UserID).
		First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "நபர் கிடைக்கவில்லை.")
		}
		return respond.Error(c, err)
	}

	if err := h.DB.Model(&person).Updates(map[string]interface{}{
		"mp_first_name":  req.FirstName,
		"mp_second_name": req.SecondName,
		"mp_business":    req.Business,
		"mp_city":        req.City,
		"mp_mobile":      req.Mobile,
	}).Error; err != nil {
		return respond.Error(c, err)
	}

	person.FirstName = req.FirstName
	person.SecondName = req.SecondName
	person.Business = req.Business
	person.City = req.City
	person.Mobile = req.Mobile
	if err := search.IndexPerson(c.Request().Context(), h.ES, es.PersonIndex, &person); err != nil {
		c.Logger().Errorf("ES index person %d: %v", person.ID, err)
	}

	return respond.Message(c, http.StatusOK, msgUpdated)
}

// Delete soft-deletes: the row stays for ledger history, it just drops
// out of listings.
func (h *PersonHandler) Delete(c echo.Context) error {
	var person models.Person
	if err := h.DB.First(&person, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "நபர் கிடைக்கவில்லை.")
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Model(&person).Update("mp_active", models.StatusInactive).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.Message(c, http.StatusOK, msgDeleted)
}
