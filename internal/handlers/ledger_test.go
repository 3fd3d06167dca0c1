package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prasowlabs/moi-kanakku/internal/models"
)

func (env *testEnv) createPerson(t *testing.T, userID int64, name string) *models.Person {
	t.Helper()
	person := models.Person{
		UserID:    userID,
		FirstName: name,
		City:      "Madurai",
		Active:    models.StatusActive,
	}
	require.NoError(t, env.DB.Create(&person).Error)
	return &person
}

func TestLedgerAddAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	person := env.createPerson(t, user.ID, "Kumar")

	invest := map[string]interface{}{
		"userId":   user.ID,
		"personId": person.ID,
		"mode":     models.EntryModeMoney,
		"date":     time.Now().Format("2006-01-02"),
		"amount":   1000.0,
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/apis/moi-credit-debit/invest", invest)
	require.NoError(t, env.Ledger.AddInvest(c))
	require.Equal(t, http.StatusOK, rec.Code)

	ret := map[string]interface{}{
		"userId":   user.ID,
		"personId": person.ID,
		"mode":     models.EntryModeMoney,
		"date":     time.Now().Format("2006-01-02"),
		"amount":   400.0,
	}
	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/moi-credit-debit/return", ret)
	require.NoError(t, env.Ledger.AddReturn(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	// A THING entry shows up as a transaction but adds nothing to the sums.
	thing := map[string]interface{}{
		"userId":   user.ID,
		"personId": person.ID,
		"mode":     models.EntryModeThing,
		"date":     time.Now().Format("2006-01-02"),
		"amount":   9999.0,
	}
	rec3, c3 := env.doJSONRequest(http.MethodPost, "/apis/moi-credit-debit/invest", thing)
	require.NoError(t, env.Ledger.AddInvest(c3))
	require.Equal(t, http.StatusOK, rec3.Code)

	rec4, c4 := env.doJSONRequest(http.MethodPost, "/apis/moi-credit-debit/dashboard",
		map[string]interface{}{"userId": user.ID})
	require.NoError(t, env.Ledger.Dashboard(c4))
	require.Equal(t, http.StatusOK, rec4.Code)

	var resp struct {
		ResponseValue struct {
			Summary struct {
				MoiInvest   float64 `json:"moiInvest"`
				MoiReturn   float64 `json:"moiReturn"`
				Total       float64 `json:"total"`
				MemberCount int     `json:"memberCount"`
			} `json:"summary"`
			Persons []struct {
				Balance      float64                  `json:"balance"`
				Transactions []map[string]interface{} `json:"transactions"`
				Count        int                      `json:"count"`
			} `json:"persons"`
		} `json:"responseValue"`
	}
	require.NoError(t, json.Unmarshal(rec4.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.ResponseValue.Summary.MemberCount)
	require.Equal(t, 1000.0, resp.ResponseValue.Summary.MoiInvest)
	require.Equal(t, 400.0, resp.ResponseValue.Summary.MoiReturn)
	require.Equal(t, 600.0, resp.ResponseValue.Summary.Total)
	require.Len(t, resp.ResponseValue.Persons, 1)
	require.Equal(t, 600.0, resp.ResponseValue.Persons[0].Balance)
	require.Equal(t, 3, resp.ResponseValue.Persons[0].Count)
}

func TestLedgerAddUnknownPerson(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/moi-credit-debit/invest", map[string]interface{}{
		"userId":   user.ID,
		"personId": 999,
		"mode":     models.EntryModeMoney,
		"date":     "2026-01-15",
		"amount":   100.0,
	})
	require.NoError(t, env.Ledger.AddInvest(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLedgerListFilters(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "owner@example.com", "9876543210", "secret123")
	person := env.createPerson(t, user.ID, "Kumar")

	for _, e := range []models.LedgerEntry{
		{UserID: user.ID, PersonID: person.ID, Type: models.EntryTypeInvest,
			Mode: models.EntryModeMoney, Date: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			Amount: 100, Active: models.StatusActive},
		{UserID: user.ID, PersonID: person.ID, Type: models.EntryTypeReturn,
			Mode: models.EntryModeMoney, Date: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			Amount: 200, Active: models.StatusActive},
	} {
		entry := e
		require.NoError(t, env.DB.Create(&entry).Error)
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/apis/moi-credit-debit/list", map[string]interface{}{
		"userId": user.ID,
		"type":   models.EntryTypeReturn,
	})
	require.NoError(t, env.Ledger.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Count         int                  `json:"count"`
		ResponseValue []models.LedgerEntry `json:"responseValue"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, models.EntryTypeReturn, resp.ResponseValue[0].Type)

	rec2, c2 := env.doJSONRequest(http.MethodPost, "/apis/moi-credit-debit/list", map[string]interface{}{
		"userId":   user.ID,
		"fromDate": "2026-01-01",
		"toDate":   "2026-01-31",
	})
	require.NoError(t, env.Ledger.List(c2))
	require.NoError(t, json.Unmarshal(rec2.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, models.EntryTypeInvest, resp.ResponseValue[0].Type)
}
