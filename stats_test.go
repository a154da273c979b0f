package main

import (
	"net/http"
	"testing"

	"inventar-backend/models"

	"github.com/stretchr/testify/assert"
)

// statsBody зеркалит JSON ответа сводной статистики
type statsBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Totals struct {
			TotalItems     int64   `json:"total_items"`
			ActiveItems    int64   `json:"active_items"`
			RetiredItems   int64   `json:"retired_items"`
			TotalPrice     float64 `json:"total_price"`
			TotalTags      int64   `json:"total_tags"`
			TotalUsers     int64   `json:"total_users"`
			TotalCompanies int64   `json:"total_companies"`
		} `json:"totals"`
		Companies []struct {
			Name       string  `json:"name"`
			ItemCount  int64   `json:"item_count"`
			TotalPrice float64 `json:"total_price"`
		} `json:"companies"`
		CostCenters []struct {
			Label      string  `json:"label"`
			ItemCount  int64   `json:"item_count"`
			TotalPrice float64 `json:"total_price"`
		} `json:"cost_centers"`
	} `json:"data"`
}

func TestGetStatsEmpty(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)

	resp, err := app.Test(jsonRequest("GET", "/api/stats/", nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body statsBody
	assert.NoError(t, decodeResponse(resp, &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(0), body.Data.Totals.TotalItems)
	assert.Equal(t, 0.0, body.Data.Totals.TotalPrice)
	assert.Empty(t, body.Data.Companies)
	assert.Empty(t, body.Data.CostCenters)
}

func TestGetStatsTotalsAndBreakdowns(t *testing.T) {
	db := setupTestDB()
	app := createTestApp(db)
	createTestUser(db, "Admin", "admin@test.com")

	acme := models.Company{Name: "Acme"}
	globex := models.Company{Name: "Globex"}
	db.Create(&acme)
	db.Create(&globex)

	it := models.CostCenter{Label: "IT"}
	db.Create(&it)

	db.Create(&models.Item{ID: 1, Price: ptrFloat(100), CompanyID: &acme.ID, CostCenterID: &it.ID})
	db.Create(&models.Item{ID: 2, Price: ptrFloat(200), CompanyID: &acme.ID})
	db.Create(&models.Item{ID: 3, Price: ptrFloat(50), CompanyID: &globex.ID, Deinventoried: true})
	db.Create(&models.Item{ID: 4})
	db.Create(&models.Tag{Name: "Сервер"})

	resp, err := app.Test(jsonRequest("GET", "/api/stats/", nil, ""))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body statsBody
	assert.NoError(t, decodeResponse(resp, &body))
	assert.Equal(t, int64(4), body.Data.Totals.TotalItems)
	assert.Equal(t, int64(3), body.Data.Totals.ActiveItems)
	assert.Equal(t, int64(1), body.Data.Totals.RetiredItems)
	assert.Equal(t, 350.0, body.Data.Totals.TotalPrice)
	assert.Equal(t, int64(1), body.Data.Totals.TotalTags)
	assert.Equal(t, int64(1), body.Data.Totals.TotalUsers)
	assert.Equal(t, int64(2), body.Data.Totals.TotalCompanies)

	// Фирмы упорядочены по числу предметов
	assert.Len(t, body.Data.Companies, 2)
	assert.Equal(t, "Acme", body.Data.Companies[0].Name)
	assert.Equal(t, int64(2), body.Data.Companies[0].ItemCount)
	assert.Equal(t, 300.0, body.Data.Companies[0].TotalPrice)

	assert.Len(t, body.Data.CostCenters, 1)
	assert.Equal(t, "IT", body.Data.CostCenters[0].Label)
	assert.Equal(t, int64(1), body.Data.CostCenters[0].ItemCount)
}
