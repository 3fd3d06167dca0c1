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

// LedgerHandler serves the per-person credit/debit book: INVEST rows
// are gifts given to a person, RETURN rows are gifts received back.
type LedgerHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *LedgerHandler) publish(c echo.Context, event map[string]interface{}, key int64) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicMoiEvents, fmt.Sprint(key), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

type personSummary struct {
	PersonID   int64   `json:"personId"`
	FirstName  string  `json:"firstName"`
	SecondName string  `json:"secondName"`
	Business   string  `json:"business"`
	City       string  `json:"city"`
	Mobile     string  `json:"mobile"`
	MoiInvest  float64 `json:"moiInvest"`
	MoiReturn  float64 `json:"moiReturn"`
}

type personGroup struct {
	Person       personSummary        `json:"personDetails"`
	Balance      float64              `json:"balance"`
	Transactions []models.LedgerEntry `json:"transactions"`
	Count        int                  `json:"count"`
}

// Dashboard groups the user's ledger by person with money totals on
// both sides. THING entries count rows but add nothing to the sums.
func (h *LedgerHandler) Dashboard(c echo.Context) error {
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

	var summaries []personSummary
	err := h.DB.Model(&models.Person{}).
		Select(`gp_moi_persons.mp_id AS person_id,
			gp_moi_persons.mp_first_name AS first_name,
			gp_moi_persons.mp_second_name AS second_name,
			gp_moi_persons.mp_business AS business,
			gp_moi_persons.mp_city AS city,
			gp_moi_persons.mp_mobile AS mobile,
			COALESCE(SUM(CASE WHEN mcd.mcd_type = 'INVEST' AND mcd.mcd_mode = 'MONEY' THEN mcd.mcd_amount ELSE 0 END), 0) AS moi_invest,
			COALESCE(SUM(CASE WHEN mcd.mcd_type = 'RETURN' AND mcd.mcd_mode = 'MONEY' THEN mcd.mcd_amount ELSE 0 END), 0) AS moi_return`).
		Joins(`LEFT JOIN gp_moi_credit_debit_master mcd
			ON mcd.mcd_person_id = gp_moi_persons.mp_id AND mcd.mcd_active = 'Y'`).
		Where("gp_moi_persons.mp_um_id = ? AND gp_moi_persons.mp_active = ?",
			req.UserID, models.StatusActive).
		Group("gp_moi_persons.mp_id, gp_moi_persons.mp_first_name, gp_moi_persons.mp_second_name, gp_moi_persons.mp_business, gp_moi_persons.mp_city, gp_moi_persons.mp_mobile").
		Order("gp_moi_persons.mp_id DESC").
		Scan(&summaries).Error
	if err != nil {
		return respond.Error(c, err)
	}

	var entries []models.LedgerEntry
	if err := h.DB.Where("mcd_um_id = ? AND mcd_active = ?", req.UserID, models.StatusActive).
		Order("mcd_date DESC, mcd_id DESC").Find(&entries).Error; err != nil {
		return respond.Error(c, err)
	}
	byPerson := make(map[int64][]models.LedgerEntry, len(summaries))
	for _, e := range entries {
		byPerson[e.PersonID] = append(byPerson[e.PersonID], e)
	}

	var totalInvest, totalReturn float64
	groups := make([]personGroup, 0, len(summaries))
	for _, s := range summaries {
		totalInvest += s.MoiInvest
		totalReturn += s.MoiReturn
		tx := byPerson[s.PersonID]
		if tx == nil {
			tx = []models.LedgerEntry{}
		}
		groups = append(groups, personGroup{
			Person:       s,
			Balance:      s.MoiInvest - s.MoiReturn,
			Transactions: tx,
			Count:        len(tx),
		})
	}

	return respond.Success(c, http.StatusOK, map[string]interface{}{
		"summary": map[string]interface{}{
			"moiInvest":   totalInvest,
			"moiReturn":   totalReturn,
			"total":       totalInvest - totalReturn,
			"memberCount": len(summaries),
		},
		"persons": groups,
		"count":   len(groups),
	})
}

// List filters the flat entry list by type, person, free text and a
// date window. Empty filters are ignored.
func (h *LedgerHandler) List(c echo.Context) error {
	var req struct {
		UserID   int64  `json:"userId"`
		PersonID int64  `json:"personId"`
		Type     string `json:"type"`
		Search   string `json:"search"`
		FromDate string `json:"fromDate"`
		ToDate   string `json:"toDate"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	q := h.DB.Where("mcd_um_id = ? AND mcd_active = ?", req.UserID, models.StatusActive)
	if req.PersonID > 0 {
		q = q.Where("mcd_person_id = ?", req.PersonID)
	}
	if req.Type == models.EntryTypeInvest || req.Type == models.EntryTypeReturn {
		q = q.Where("mcd_type = ?", req.Type)
	}
	if req.Search != "" {
		like := "%" + req.Search + "%"
		q = q.Where("mcd_first_name LIKE ? OR mcd_second_name LIKE ? OR mcd_city LIKE ?", like, like, like)
	}
	if req.FromDate != "" {
		from, err := parseDate(req.FromDate)
		if err != nil {
			return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
		}
		q = q.Where("mcd_date >= ?", from)
	}
	if req.ToDate != "" {
		to, err := parseDate(req.ToDate)
		if err != nil {
			return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
		}
		q = q.Where("mcd_date <= ?", to)
	}

	var entries []models.LedgerEntry
	if err := q.Order("mcd_date DESC, mcd_id DESC").Find(&entries).Error; err != nil {
		return respond.Error(c, err)
	}
	return respond.SuccessList(c, http.StatusOK, len(entries), entries)
}

func (h *LedgerHandler) AddInvest(c echo.Context) error {
	return h.add(c, models.EntryTypeInvest)
}

func (h *LedgerHandler) AddReturn(c echo.Context) error {
	return h.add(c, models.EntryTypeReturn)
}

func (h *LedgerHandler) add(c echo.Context, entryType string) error {
	var req struct {
		UserID     int64   `json:"userId"`
		PersonID   int64   `json:"personId"`
		FirstName  *string `json:"firstName"`
		SecondName *string `json:"secondName"`
		City       *string `json:"city"`
		FunctionID int64   `json:"functionId"`
		Mode       string  `json:"mode"`
		Date       string  `json:"date"`
		Amount     float64 `json:"amount"`
		Remarks    *string `json:"remarks"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}
	if req.PersonID == 0 {
		return respond.Fail(c, http.StatusBadRequest, "நபர் எண் தேவை.")
	}
	if req.Mode == "" {
		req.Mode = models.EntryModeMoney
	}
	if req.Mode != models.EntryModeMoney && req.Mode != models.EntryModeThing {
		return respond.Fail(c, http.StatusBadRequest, "தவறான முறை.")
	}

	var person models.Person
	if err := h.DB.Where("mp_id = ? AND mp_um_id = ? AND mp_active = ?",
		req.PersonID, req.UserID, models.StatusActive).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, "நபர் கிடைக்கவில்லை.")
		}
		return respond.Error(c, err)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
	}

	entry := models.LedgerEntry{
		UserID:     req.UserID,
		PersonID:   req.PersonID,
		FirstName:  req.FirstName,
		SecondName: req.SecondName,
		City:       req.City,
		FunctionID: req.FunctionID,
		Type:       entryType,
		Mode:       req.Mode,
		Date:       date,
		Amount:     req.Amount,
		Remarks:    req.Remarks,
		Active:     models.StatusActive,
	}
	if err := h.DB.Create(&entry).Error; err != nil {
		return respond.Error(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":      "ledger_entry_created",
		"userId":    entry.UserID,
		"entryId":   entry.ID,
		"entryType": entry.Type,
	}, entry.UserID)

	return respond.Message(c, http.StatusOK, msgSaved)
}

func (h *LedgerHandler) GetByID(c echo.Context) error {
	var entry models.LedgerEntry
	if err := h.DB.Where("mcd_id = ? AND mcd_active = ?", c.Param("id"), models.StatusActive).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgRecordNotFound)
		}
		return respond.Error(c, err)
	}
	return respond.Success(c, http.StatusOK, entry)
}

func (h *LedgerHandler) Update(c echo.Context) error {
	var req struct {
		ID      int64   `json:"id"`
		UserID  int64   `json:"userId"`
		Mode    string  `json:"mode"`
		Date    string  `json:"date"`
		Amount  float64 `json:"amount"`
		Remarks *string `json:"remarks"`
	}
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, http.StatusBadRequest, err.Error())
	}

	var entry models.LedgerEntry
	if err := h.DB.Where("mcd_id = ? AND mcd_um_id = ?", req.ID, req.UserID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgRecordNotFound)
		}
		return respond.Error(c, err)
	}

	updates := map[string]interface{}{
		"mcd_amount":  req.Amount,
		"mcd_remarks": req.Remarks,
	}
	if req.Mode == models.EntryModeMoney || req.Mode == models.EntryModeThing {
		updates["mcd_mode"] = req.Mode
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return respond.Fail(c, http.StatusBadRequest, "தவறான தேதி வடிவம்.")
		}
		updates["mcd_date"] = date
	}
	if err := h.DB.Model(&entry).Updates(updates).Error; err != nil {
		return respond.Error(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "ledger_entry_updated",
		"userId":  entry.UserID,
		"entryId": entry.ID,
	}, entry.UserID)

	return respond.Message(c, http.StatusOK, msgUpdated)
}

func (h *LedgerHandler) Delete(c echo.Context) error {
	principalID, _ := auth.PrincipalID(c)
	if employee, err := service.ActiveEmployee(h.DB, principalID); err != nil {
		return respond.Error(c, err)
	} else if employee != nil {
		return respond.Fail(c, http.StatusForbidden, msgEmployeeNoDelete)
	}

	var entry models.LedgerEntry
	if err := h.DB.First(&entry, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respond.Fail(c, http.StatusNotFound, msgRecordNotFound)
		}
		return respond.Error(c, err)
	}
	if err := h.DB.Delete(&entry).Error; err != nil {
		return respond.Error(c, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "ledger_entry_deleted",
		"userId":  entry.UserID,
		"entryId": entry.ID,
	}, entry.UserID)

	return respond.Message(c, http.StatusOK, msgDeleted)
}
